package policy

type Action string

const (
	ActionList     Action = "list"
	ActionCreate   Action = "create"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Rules maps each action of a resource to its required tier. Actions missing
// from the table require admin.
type Rules map[Action]Tier

func (r Rules) TierFor(action Action) Tier {
	if tier, ok := r[action]; ok {
		return tier
	}
	return TierAdmin
}

// Check evaluates the tier required for action against p.
func (r Rules) Check(p *Principal, action Action) error {
	return Check(p, r.TierFor(action))
}

var (
	// AdminManaged covers cinemas, films, showings and addresses: anyone reads,
	// only admins write.
	AdminManaged = Rules{
		ActionList:     TierPublic,
		ActionRetrieve: TierPublic,
		ActionCreate:   TierAdmin,
		ActionUpdate:   TierAdmin,
		ActionDelete:   TierAdmin,
	}

	Tickets = Rules{
		ActionList:     TierAuthenticated,
		ActionRetrieve: TierAuthenticated,
		ActionCreate:   TierAuthenticated,
		ActionUpdate:   TierAuthenticated,
		ActionDelete:   TierAuthenticated,
	}

	Users = Rules{
		ActionCreate:   TierPublic,
		ActionList:     TierAuthenticated,
		ActionRetrieve: TierAuthenticated,
		ActionUpdate:   TierAdmin,
		ActionDelete:   TierAdmin,
	}
)
