package reconcile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/autoshield/autoshield/pkg/domain/changeset"
	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/autoshield/autoshield/pkg/domain/snapshot"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
)

// Changes is the outcome of one store/snapshot comparison. A key appears
// on at most one side: additions are snapshot rows the active store does
// not carry, removals are active store rows the snapshot dropped.
type Changes struct {
	Additions []iprange.IPRange
	Removals  []iprange.IPRange
}

func (c Changes) Empty() bool {
	return len(c.Additions) == 0 && len(c.Removals) == 0
}

// Grouped is the dispatch plan derived from Changes: one group per
// (firewall, action), removals strictly apart from additions. Unmatched
// counts candidate rows whose scope has no subscriber.
type Grouped struct {
	Removals  []changeset.ChangeGroup
	Additions []changeset.ChangeGroup
	Unmatched int
}

// Diff compares the active store rows against the staged snapshot.
// Rows the store only knows as deleted are absent from active, so a
// re-appearing address naturally surfaces as an addition again.
func Diff(active []iprange.IPRange, staged []snapshot.StagedRange) (Changes, error) {
	stagedKeys := make(map[iprange.Key]bool, len(staged))
	additions := make([]iprange.IPRange, 0)

	for _, row := range staged {
		if err := validateStagedRow(row); err != nil {
			return Changes{}, err
		}
		stagedKeys[iprange.Key{Component: row.Component, Region: row.Region, Address: row.Address}] = true
	}

	activeKeys := make(map[iprange.Key]bool, len(active))
	for _, r := range active {
		activeKeys[r.Key()] = true
	}

	for _, row := range staged {
		key := iprange.Key{Component: row.Component, Region: row.Region, Address: row.Address}
		if activeKeys[key] {
			continue
		}
		additions = append(additions, iprange.IPRange{
			Component: row.Component,
			Region:    row.Region,
			Address:   row.Address,
			StartIP:   row.StartIP,
			EndIP:     row.EndIP,
		})
	}

	removals := make([]iprange.IPRange, 0)
	for _, r := range active {
		if !stagedKeys[r.Key()] {
			removals = append(removals, r)
		}
	}

	return Changes{Additions: additions, Removals: removals}, nil
}

func validateStagedRow(row snapshot.StagedRange) error {
	if row.Component == "" || row.Region == "" || row.Address == "" {
		return fmt.Errorf("staged range %q/%q %q: missing key fields", row.Component, row.Region, row.Address)
	}
	if row.StartIP == "" || row.EndIP == "" {
		return fmt.Errorf("staged range %s/%s %s: missing address bounds", row.Component, row.Region, row.Address)
	}
	return nil
}

// Group joins the change candidates against the subscription registry
// and folds them into per-firewall dispatch groups. Group order is
// deterministic so two runs over the same inputs dispatch identically.
func Group(changes Changes, entries []subscription.Entry) Grouped {
	targetsByScope := make(map[subscription.Scope][]changeset.Target, len(entries))
	for _, entry := range entries {
		scope := entry.Scope()
		targetsByScope[scope] = append(targetsByScope[scope], changeset.TargetOf(entry))
	}

	var unmatched int
	removalsByTarget := make(map[changeset.Target][]iprange.IPRange)
	additionsByTarget := make(map[changeset.Target][]iprange.IPRange)

	fold := func(rows []iprange.IPRange, byTarget map[changeset.Target][]iprange.IPRange) {
		for _, r := range rows {
			targets := targetsByScope[subscription.Scope{Component: r.Component, Region: r.Region}]
			if len(targets) == 0 {
				unmatched++
				continue
			}
			for _, target := range targets {
				byTarget[target] = append(byTarget[target], r)
			}
		}
	}
	fold(changes.Removals, removalsByTarget)
	fold(changes.Additions, additionsByTarget)

	return Grouped{
		Removals:  buildGroups(removalsByTarget, changeset.ActionRemove),
		Additions: buildGroups(additionsByTarget, changeset.ActionAdd),
		Unmatched: unmatched,
	}
}

func buildGroups(byTarget map[changeset.Target][]iprange.IPRange, action changeset.Action) []changeset.ChangeGroup {
	groups := make([]changeset.ChangeGroup, 0, len(byTarget))
	for target, rows := range byTarget {
		groups = append(groups, changeset.New(target, action, rows))
	}
	slices.SortFunc(groups, func(a, b changeset.ChangeGroup) int {
		return strings.Compare(a.Target.String(), b.Target.String())
	})
	return groups
}
