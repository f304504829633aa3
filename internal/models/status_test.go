package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextStatus_AllowedTransitions(t *testing.T) {
	cases := []struct {
		from   ProductStatus
		action LifecycleAction
		to     ProductStatus
	}{
		{StatusDraft, ActionSubmit, StatusPending},
		{StatusRejected, ActionSubmit, StatusPending},
		{StatusPending, ActionApprove, StatusActive},
		{StatusPending, ActionReject, StatusRejected},
		{StatusActive, ActionDeactivate, StatusInactive},
		{StatusInactive, ActionReactivate, StatusActive},
	}

	for _, tc := range cases {
		to, ok := NextStatus(tc.from, tc.action)
		assert.True(t, ok, "expected %s from %s to be allowed", tc.action, tc.from)
		assert.Equal(t, tc.to, to)
	}
}

func TestNextStatus_DisallowedTransitions(t *testing.T) {
	cases := []struct {
		from   ProductStatus
		action LifecycleAction
	}{
		{StatusDraft, ActionApprove},
		{StatusDraft, ActionReject},
		{StatusDraft, ActionDeactivate},
		{StatusDraft, ActionReactivate},
		{StatusPending, ActionSubmit},
		{StatusPending, ActionDeactivate},
		{StatusPending, ActionReactivate},
		{StatusActive, ActionSubmit},
		{StatusActive, ActionApprove},
		{StatusActive, ActionReject},
		{StatusActive, ActionReactivate},
		{StatusInactive, ActionSubmit},
		{StatusInactive, ActionApprove},
		{StatusInactive, ActionDeactivate},
		{StatusRejected, ActionApprove},
		{StatusRejected, ActionReject},
		{StatusRejected, ActionDeactivate},
		{StatusRejected, ActionReactivate},
	}

	for _, tc := range cases {
		_, ok := NextStatus(tc.from, tc.action)
		assert.False(t, ok, "expected %s from %s to be rejected", tc.action, tc.from)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}

func TestSubmissionViolations(t *testing.T) {
	ready := Product{
		Description: "A sturdy oak desk.",
		Price:       decimal.NewFromFloat(149.99),
		Stock:       3,
		Images:      []ProductImage{{ImageURL: "https://cdn.example.com/desk.jpg", IsPrimary: true}},
	}
	assert.Empty(t, ready.SubmissionViolations())

	empty := Product{Price: decimal.Zero, Stock: -1}
	violations := empty.SubmissionViolations()
	assert.Len(t, violations, 4)
	assert.Contains(t, violations, ViolationNoImages)
	assert.Contains(t, violations, ViolationEmptyDescription)
	assert.Contains(t, violations, ViolationNonPositivePrice)
	assert.Contains(t, violations, ViolationNegativeStock)

	// Whitespace-only descriptions do not count as filled in.
	blank := ready
	blank.Description = "   "
	assert.Contains(t, blank.SubmissionViolations(), ViolationEmptyDescription)
}

func TestEditable(t *testing.T) {
	assert.True(t, (&Product{Status: StatusDraft}).Editable())
	assert.True(t, (&Product{Status: StatusRejected}).Editable())
	assert.False(t, (&Product{Status: StatusPending}).Editable())
	assert.False(t, (&Product{Status: StatusActive}).Editable())
	assert.False(t, (&Product{Status: StatusInactive}).Editable())
}

func TestPrimaryImage(t *testing.T) {
	p := Product{Images: []ProductImage{
		{ID: "a", ImageURL: "https://cdn.example.com/a.jpg"},
		{ID: "b", ImageURL: "https://cdn.example.com/b.jpg", IsPrimary: true},
	}}
	img := p.PrimaryImage()
	assert.NotNil(t, img)
	assert.Equal(t, "b", img.ID)

	assert.Nil(t, (&Product{}).PrimaryImage())
}

func TestActorPermissions(t *testing.T) {
	admin := Actor{ID: "u1", Role: RoleAdmin}
	vendor := Actor{ID: "u2", Role: RoleVendor, VerifiedVendor: true}
	unverified := Actor{ID: "u3", Role: RoleVendor}
	customer := Actor{ID: "u4", Role: RoleCustomer}

	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.CanCreateProducts())
	assert.True(t, vendor.CanCreateProducts())
	assert.False(t, unverified.CanCreateProducts())
	assert.False(t, customer.IsVendor())
}
