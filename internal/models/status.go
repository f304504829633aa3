package models

// ProductStatus is the moderation state of a product.
type ProductStatus string

const (
	StatusDraft    ProductStatus = "draft"
	StatusPending  ProductStatus = "pending"
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
	StatusRejected ProductStatus = "rejected"
)

// LifecycleAction is a named transition request against a product's status.
type LifecycleAction string

const (
	ActionSubmit     LifecycleAction = "submit"
	ActionApprove    LifecycleAction = "approve"
	ActionReject     LifecycleAction = "reject"
	ActionDeactivate LifecycleAction = "deactivate"
	ActionReactivate LifecycleAction = "reactivate"
)

// lifecycleTransitions is the complete transition table; anything absent
// here is an invalid transition.
var lifecycleTransitions = map[ProductStatus]map[LifecycleAction]ProductStatus{
	StatusDraft:    {ActionSubmit: StatusPending},
	StatusRejected: {ActionSubmit: StatusPending},
	StatusPending:  {ActionApprove: StatusActive, ActionReject: StatusRejected},
	StatusActive:   {ActionDeactivate: StatusInactive},
	StatusInactive: {ActionReactivate: StatusActive},
}

// NextStatus returns the status reached by applying action in the given
// state, and whether the transition is allowed at all.
func NextStatus(from ProductStatus, action LifecycleAction) (ProductStatus, bool) {
	to, ok := lifecycleTransitions[from][action]
	return to, ok
}

// ValidStatus reports whether s is one of the known product statuses.
func ValidStatus(s ProductStatus) bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusInactive, StatusRejected:
		return true
	}
	return false
}

// AllStatuses lists every product status, used for stats and filters.
func AllStatuses() []ProductStatus {
	return []ProductStatus{StatusDraft, StatusPending, StatusActive, StatusInactive, StatusRejected}
}
