package changeset

import (
	"fmt"
	"slices"

	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
)

// Action is the mutation direction of a group.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Target identifies the downstream firewall a group is bound for.
type Target struct {
	OfferingType   subscription.OfferingType `json:"offering_type"`
	OfferingName   string                    `json:"offering_name"`
	SubscriptionID string                    `json:"subscription_id"`
	ResourceGroup  string                    `json:"resource_group"`
}

func TargetOf(entry subscription.Entry) Target {
	return Target{
		OfferingType:   entry.OfferingType,
		OfferingName:   entry.OfferingName,
		SubscriptionID: entry.SubscriptionID,
		ResourceGroup:  entry.ResourceGroup,
	}
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s (%s, rg %s)", t.OfferingType, t.OfferingName, t.SubscriptionID, t.ResourceGroup)
}

// ChangeGroup is the dispatch unit: every range of one action bound for
// one firewall, ordered by numeric start address. One group becomes
// exactly one outbound call.
type ChangeGroup struct {
	Target Target
	Action Action
	Ranges []iprange.IPRange
}

func New(target Target, action Action, ranges []iprange.IPRange) ChangeGroup {
	sorted := slices.Clone(ranges)
	iprange.SortByStart(sorted)
	return ChangeGroup{Target: target, Action: action, Ranges: sorted}
}

// IPRules renders the group's ranges as wire rule strings.
func (g ChangeGroup) IPRules() []string {
	rules := make([]string, 0, len(g.Ranges))
	for _, r := range g.Ranges {
		rules = append(rules, r.RuleString())
	}
	return rules
}
