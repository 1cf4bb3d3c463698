package validation

import "regexp"

// Ear-tag format: T- followed by six digits (e.g. T-000123).
var tagRe = regexp.MustCompile(`^T-\d{6}$`)

// Lot code: LOTE-<year>-<sequence> (e.g. LOTE-2024-001).
var lotCodeRe = regexp.MustCompile(`^LOTE-\d{4}-\d{3,}$`)

// Pen number: letter block + two-digit index (e.g. A-01).
var penNumberRe = regexp.MustCompile(`^[A-Z]{1,3}-\d{2}$`)

func IsValidTag(tag string) bool {
	return tagRe.MatchString(tag)
}

func IsValidLotCode(code string) bool {
	return lotCodeRe.MatchString(code)
}

func IsValidPenNumber(number string) bool {
	return penNumberRe.MatchString(number)
}
