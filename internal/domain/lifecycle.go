package domain

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStatusDraft:   {CampaignStatusPending},
	CampaignStatusPending: {CampaignStatusActive, CampaignStatusCancelled},
	CampaignStatusActive:  {CampaignStatusCompleted, CampaignStatusCancelled},
}

// CanTransition reports whether a campaign may move from one status to another.
// Completed and cancelled are terminal.
func CanTransition(from, to CampaignStatus) bool {
	for _, next := range campaignTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a validation error for a disallowed transition.
func CheckTransition(from, to CampaignStatus) error {
	if !to.Valid() {
		return Invalid("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return Invalid("cannot move campaign from %s to %s", from, to)
	}
	return nil
}
