package calculator

import (
	"fmt"
	"slices"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// EqualSplit divides total evenly among memberIDs, one split per member in
// the given order.
//
// Each share is rounded half-up to the cent on its own. The rounding
// remainder is not redistributed, so the shares may differ from total by up
// to one cent per member; e.g. 100.00 among three is 33.33 each (99.99).
func EqualSplit(total money.Cents, memberIDs []string) ([]models.Split, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, total)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: equal split needs at least one member", ErrInvalidSplit)
	}

	share := roundHalfUp(total, len(memberIDs))
	splits := make([]models.Split, len(memberIDs))
	seen := make(map[string]bool, len(memberIDs))
	for i, id := range memberIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty member id at position %d", ErrInvalidSplit, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: member %s appears twice", ErrInvalidSplit, id)
		}
		seen[id] = true
		splits[i] = models.Split{MemberID: id, Amount: share}
	}
	return splits, nil
}

// ValidateCustomSplit checks a caller-supplied split list against total and
// returns a copy of it unchanged. Members may be left out (they owe nothing)
// and shares may be zero.
func ValidateCustomSplit(total money.Cents, splits []models.Split) ([]models.Split, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, total)
	}
	if len(splits) == 0 {
		return nil, fmt.Errorf("%w: custom split has no entries", ErrInvalidSplit)
	}

	seen := make(map[string]bool, len(splits))
	var sum money.Cents
	for i, s := range splits {
		if s.MemberID == "" {
			return nil, fmt.Errorf("%w: empty member id at position %d", ErrInvalidSplit, i)
		}
		if seen[s.MemberID] {
			return nil, fmt.Errorf("%w: member %s appears twice", ErrInvalidSplit, s.MemberID)
		}
		if s.Amount < 0 {
			return nil, fmt.Errorf("%w: negative share %s for member %s", ErrInvalidSplit, s.Amount, s.MemberID)
		}
		seen[s.MemberID] = true
		sum += s.Amount
	}

	if !money.Equal(sum, total) {
		return nil, fmt.Errorf("%w: splits total %s, expense total %s", ErrSplitMismatch, sum, total)
	}
	return slices.Clone(splits), nil
}

// roundHalfUp returns total/n rounded half-up to the nearest cent.
// total must be positive.
func roundHalfUp(total money.Cents, n int) money.Cents {
	d := money.Cents(n)
	return (2*total + d) / (2 * d)
}
