package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nkengderick/biotec-api/internal/model"
	"github.com/nkengderick/biotec-api/internal/repository"
)

const memberCodePrefix = "BTU"

// counter keys: one per type letter, one global for all coded members.
const (
	typeCounterKeyPrefix = "type:"
	memberCounterKey     = "members:all"
)

// MemberCodeAllocator generates unique member codes of the form
// BTU + yy + mm + type letter + TypeSeq + MemberSeq, e.g. BTU2503S0410 for
// the 4th student-type member and 10th member overall in March 2025.
// Sequences come from persistent counters incremented under a row lock
// inside the promotion transaction, so concurrent promotions cannot hand
// out the same numbers.
type MemberCodeAllocator struct {
	clock func() time.Time
}

// NewMemberCodeAllocator creates an allocator using the wall clock.
func NewMemberCodeAllocator() *MemberCodeAllocator {
	return &MemberCodeAllocator{clock: time.Now}
}

// NewMemberCodeAllocatorAt creates an allocator with a fixed clock.
func NewMemberCodeAllocatorAt(clock func() time.Time) *MemberCodeAllocator {
	return &MemberCodeAllocator{clock: clock}
}

// Allocate draws the next code for the given category. The counters must be
// bound to the transaction that creates the member, so the allocation rolls
// back with a failed promotion.
func (a *MemberCodeAllocator) Allocate(ctx context.Context, counters repository.CounterRepository, category model.UserCategory) (string, error) {
	letter := TypeLetter(category)

	typeSeq, err := counters.Next(ctx, typeCounterKeyPrefix+letter)
	if err != nil {
		return "", fmt.Errorf("next type sequence: %w", err)
	}
	memberSeq, err := counters.Next(ctx, memberCounterKey)
	if err != nil {
		return "", fmt.Errorf("next member sequence: %w", err)
	}

	now := a.clock()
	return fmt.Sprintf("%s%02d%02d%s%02d%02d",
		memberCodePrefix, now.Year()%100, int(now.Month()), letter, typeSeq, memberSeq), nil
}

// TypeLetter maps a membership category to its code letter. Unrecognized
// categories default to student.
func TypeLetter(category model.UserCategory) string {
	switch category {
	case model.UserCategoryProfessional:
		return "P"
	case model.UserCategoryInstitutional:
		return "I"
	case model.UserCategoryOrganizational:
		return "O"
	default:
		return "S"
	}
}
