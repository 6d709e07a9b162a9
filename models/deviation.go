package models

import (
	"encoding/json"
	"time"
)

// Deviation is one reported incident. Records are created once and only ever deleted.
type Deviation struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	AnalystName     string          `gorm:"size:255;not null;index" json:"analystName"`
	EscalationLevel EscalationLevel `gorm:"size:32;not null" json:"escalationLevel"`
	TicketNumber    string          `gorm:"size:100;not null" json:"ticketNumber"`
	Location        string          `gorm:"size:255;not null;index" json:"location"`
	ClosingDate     string          `gorm:"size:10;not null" json:"closingDate"`
	Validation      CallValidation  `gorm:"serializer:json;type:json" json:"validation"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
}

func (Deviation) TableName() string { return "deviations" }

type CustomerDetails struct {
	Name      string `json:"name"`
	Matricula string `json:"matricula"`
}

type ClosureAuth struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// CallValidation is the checklist of what the analyst verified on the call.
// CustomerDetails is only meaningful when CalledCustomer is true.
type CallValidation struct {
	CalledCustomer     bool             `json:"calledCustomer"`
	EvaluatedEquipment bool             `json:"evaluatedEquipment"`
	CustomerDetails    *CustomerDetails `json:"customerDetails,omitempty"`
	Dispenser          bool             `json:"dispenser"`
	Depositary         bool             `json:"depositary"`
	BarcodeReader      bool             `json:"barcodeReader"`
	Printer            bool             `json:"printer"`
	CheckDepositary    bool             `json:"checkDepositary"`
	Sensoriamento      bool             `json:"sensoriamento"`
	SmartPower         bool             `json:"smartPower"`
	ClosureAuth        ClosureAuth      `json:"closureAuth"`
}

// UnmarshalJSON also accepts the legacy "saques" and "depositos" keys
// written by older front ends for the dispenser and depositary checks.
func (v *CallValidation) UnmarshalJSON(data []byte) error {
	type plain CallValidation
	aux := struct {
		*plain
		Dispenser  *bool `json:"dispenser"`
		Depositary *bool `json:"depositary"`
		Saques     *bool `json:"saques"`
		Depositos  *bool `json:"depositos"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Dispenser = firstBool(aux.Dispenser, aux.Saques)
	v.Depositary = firstBool(aux.Depositary, aux.Depositos)
	return nil
}

func firstBool(values ...*bool) bool {
	for _, b := range values {
		if b != nil {
			return *b
		}
	}
	return false
}

// Checked reports whether the given category was validated.
func (v CallValidation) Checked(c CheckCategory) bool {
	switch c {
	case CheckCategoryDispenser:
		return v.Dispenser
	case CheckCategoryDepositary:
		return v.Depositary
	case CheckCategoryBarcodeReader:
		return v.BarcodeReader
	case CheckCategoryPrinter:
		return v.Printer
	case CheckCategoryCheckDepositary:
		return v.CheckDepositary
	case CheckCategorySensoriamento:
		return v.Sensoriamento
	case CheckCategorySmartPower:
		return v.SmartPower
	}
	return false
}

// SetChecked updates one category flag. Unknown categories report false.
func (v *CallValidation) SetChecked(c CheckCategory, checked bool) bool {
	switch c {
	case CheckCategoryDispenser:
		v.Dispenser = checked
	case CheckCategoryDepositary:
		v.Depositary = checked
	case CheckCategoryBarcodeReader:
		v.BarcodeReader = checked
	case CheckCategoryPrinter:
		v.Printer = checked
	case CheckCategoryCheckDepositary:
		v.CheckDepositary = checked
	case CheckCategorySensoriamento:
		v.Sensoriamento = checked
	case CheckCategorySmartPower:
		v.SmartPower = checked
	default:
		return false
	}
	return true
}
