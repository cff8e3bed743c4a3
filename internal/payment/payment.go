// Package payment holds the card checks run before a premium subscription is
// recorded. No charge is made; the checks only reject obviously bad input.
package payment

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sugurico/internal/models"
)

var (
	ErrInvalidCard   = errors.New("有効なクレジットカード番号ではありません。")
	ErrInvalidExpiry = errors.New("有効期限が不正です (MM/YY)。")
	ErrUnknownPlan   = errors.New("プランが不正です。")
)

var expiryPattern = regexp.MustCompile(`^(\d{2})\s*/\s*(\d{2})$`)

// ValidLuhn strips non-digits and runs the Luhn checksum over 13 to 19 digits.
func ValidLuhn(cardNumber string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cardNumber)

	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	second := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if second {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		second = !second
	}
	return sum%10 == 0
}

// ValidExpiry accepts "MM/YY" for the current month or later.
func ValidExpiry(expiry string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	year := 2000 + yy

	if month < 1 || month > 12 {
		return false
	}
	if year < now.Year() {
		return false
	}
	if year == now.Year() && month < int(now.Month()) {
		return false
	}
	return true
}

// PlanExpiry is the limit date of a subscription bought (or renewed) at from.
func PlanExpiry(plan string, from time.Time) (time.Time, error) {
	switch plan {
	case models.PlanMonthly:
		return from.AddDate(0, 1, 0), nil
	case models.PlanYearly:
		return from.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, ErrUnknownPlan
	}
}

// ValidateCard runs both card checks, reporting the first failure.
func ValidateCard(cardNumber, expiry string, now time.Time) error {
	if !ValidLuhn(cardNumber) {
		return ErrInvalidCard
	}
	if !ValidExpiry(expiry, now) {
		return ErrInvalidExpiry
	}
	return nil
}
