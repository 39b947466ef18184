package domain

import (
	"time"
)

// AccountType classifies where money is held.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeCash       AccountType = "cash"
	AccountTypeOther      AccountType = "other"
)

// IsValid checks if the account type is known.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCreditCard, AccountTypeCash, AccountTypeOther:
		return true
	}
	return false
}

// Account is a bank account or card transactions can be imported from.
type Account struct {
	ID          string
	Name        string
	Type        AccountType
	Last4Digits string
	Color       string
	Institution string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the account fields.
func (a *Account) Validate() error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}
	if err := ValidateLast4(a.Last4Digits); err != nil {
		return err
	}
	return ValidateColor(a.Color)
}

// Label is the provenance label stamped onto imported transactions.
func (a *Account) Label() string {
	label := a.Name
	if a.Institution != "" {
		label = a.Institution + " " + label
	}
	if a.Last4Digits != "" {
		label += " ••" + a.Last4Digits
	}
	return label
}
