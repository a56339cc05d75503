package steps

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

func registerShieldSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Given(`^I earned "([^"]*)" and spent "([^"]*)" on essentials in each of the last (\d+) months$`, t.iEarnedAndSpentOnEssentials)
	ctx.Given(`^I have an emergency fund "([^"]*)" of type "([^"]*)" holding "([^"]*)"$`, t.iHaveAnEmergencyFund)
	ctx.Given(`^I have a goal "([^"]*)" with target "([^"]*)"$`, t.iHaveAGoal)
	ctx.Given(`^I have a loan "([^"]*)" of "([^"]*)" at "([^"]*)" percent$`, t.iHaveALoan)
}

// iEarnedAndSpentOnEssentials writes ledger rows straight to the database,
// dated on the 10th of each complete month before the current date.
func (t *testContext) iEarnedAndSpentOnEssentials(income, essentials string, months int) error {
	incomeAmount, err := decimal.NewFromString(income)
	if err != nil {
		return fmt.Errorf("invalid income %q: %w", income, err)
	}
	expenseAmount, err := decimal.NewFromString(essentials)
	if err != nil {
		return fmt.Errorf("invalid expense %q: %w", essentials, err)
	}

	now := clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	rows := make([]*model.TransactionModel, 0, months*2)
	for i := 1; i <= months; i++ {
		date := monthStart.AddDate(0, -i, 9)
		rows = append(rows,
			t.ledgerRow(date, "Salary", incomeAmount, "income", false),
			t.ledgerRow(date, "Rent and groceries", expenseAmount.Neg(), "expense", true),
		)
	}
	return t.db.DbConn.Create(rows).Error
}

func (t *testContext) ledgerRow(date time.Time, description string, amount decimal.Decimal, txnType string, essential bool) *model.TransactionModel {
	now := clock.Now()
	return &model.TransactionModel{
		ID:          uuid.New(),
		UserID:      t.userID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txnType,
		Essential:   essential,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (t *testContext) iHaveAnEmergencyFund(name, fundType, amount string) error {
	payload := fmt.Sprintf(`{"name": %q, "type": %q, "target_amount": %q, "initial_amount": %q}`,
		name, fundType, amount, amount)
	return t.createAndSave("/api/v1/emergency-shield/funds", payload, "fund.id", name)
}

func (t *testContext) iHaveAGoal(name, target string) error {
	payload := fmt.Sprintf(`{"name": %q, "target_amount": %q, "is_emergency": false}`, name, target)
	return t.createAndSave("/api/v1/goals", payload, "id", name)
}

func (t *testContext) iHaveALoan(name, principal, rate string) error {
	payload := fmt.Sprintf(`{"name": %q, "principal": %q, "annual_rate": %q}`, name, principal, rate)
	return t.createAndSave("/api/v1/loans", payload, "id", name)
}

// createAndSave posts payload, expects 201 and stores the id at field under alias.
func (t *testContext) createAndSave(path, payload, field, alias string) error {
	if err := t.executeRequest("POST", path, []byte(payload)); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	if err := t.iSaveTheResponseFieldAs(field, alias); err != nil {
		return err
	}
	t.response = nil
	return nil
}
