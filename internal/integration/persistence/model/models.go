package model

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&TransactionModel{},
		&GoalModel{},
		&LoanModel{},
		&EmergencyFundModel{},
		&FundContributionModel{},
		&ShieldAccountModel{},
		&EmailQueueModel{},
	}
}
