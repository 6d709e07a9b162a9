package models

import (
	"errors"
	"fmt"
)

type EscalationLevel string

const (
	EscalationLevelFirst  EscalationLevel = "1ª Escalada"
	EscalationLevelSecond EscalationLevel = "2ª Escalada"
	EscalationLevelThird  EscalationLevel = "3ª Escalada"
	EscalationLevelFourth EscalationLevel = "4ª Escalada"
	EscalationLevelFifth  EscalationLevel = "5ª Escalada"
)

// EscalationLevels lists the stages in escalation order.
var EscalationLevels = []EscalationLevel{
	EscalationLevelFirst,
	EscalationLevelSecond,
	EscalationLevelThird,
	EscalationLevelFourth,
	EscalationLevelFifth,
}

func (l EscalationLevel) Valid() bool {
	return l.Stage() > 0
}

// Stage returns the 1-based position of the level, or 0 when unknown.
func (l EscalationLevel) Stage() int {
	for i, lv := range EscalationLevels {
		if lv == l {
			return i + 1
		}
	}
	return 0
}

func ParseEscalationLevel(s string) (EscalationLevel, error) {
	l := EscalationLevel(s)
	if !l.Valid() {
		return "", errors.New("invalid escalation level")
	}
	return l, nil
}

// CheckCategory is one of the equipment/service checks on the call checklist.
type CheckCategory string

const (
	CheckCategoryDispenser       CheckCategory = "dispenser"
	CheckCategoryDepositary      CheckCategory = "depositary"
	CheckCategoryBarcodeReader   CheckCategory = "barcodeReader"
	CheckCategoryPrinter         CheckCategory = "printer"
	CheckCategoryCheckDepositary CheckCategory = "checkDepositary"
	CheckCategorySensoriamento   CheckCategory = "sensoriamento"
	CheckCategorySmartPower      CheckCategory = "smartPower"
)

// CheckCategories is the fixed order used for alerts and the e-mail summary.
var CheckCategories = []CheckCategory{
	CheckCategoryDispenser,
	CheckCategoryDepositary,
	CheckCategoryBarcodeReader,
	CheckCategoryPrinter,
	CheckCategoryCheckDepositary,
	CheckCategorySensoriamento,
	CheckCategorySmartPower,
}

var checkCategoryLabels = map[CheckCategory]string{
	CheckCategoryDispenser:       "Saques",
	CheckCategoryDepositary:      "Depósitos",
	CheckCategoryBarcodeReader:   "Leitor de Código de Barras",
	CheckCategoryPrinter:         "Impressora",
	CheckCategoryCheckDepositary: "Depositário de Cheques",
	CheckCategorySensoriamento:   "Sensoriamento",
	CheckCategorySmartPower:      "SmartPower",
}

func (c CheckCategory) Label() string {
	if label, ok := checkCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func ParseCheckCategory(s string) (CheckCategory, error) {
	c := CheckCategory(s)
	if _, ok := checkCategoryLabels[c]; !ok {
		return "", fmt.Errorf("unknown check category %q", s)
	}
	return c, nil
}
