package arrange

import (
	"slices"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// MemberPolicy decides what removing an individual group member does.
type MemberPolicy int

const (
	// RejectMembers refuses to remove a member on its own. The user has to
	// ungroup first.
	RejectMembers MemberPolicy = iota
	// DetachMembers removes the member and drops it from its group. A group
	// left without members is removed as well.
	DetachMembers
)

// Remove plans deleting ids. Groups are removed together with all their
// descendants. A member whose group is not also being removed is handled
// according to policy.
func Remove(d *document.Document, ids []string, policy MemberPolicy) (Plan, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return Plan{Label: "Delete"}, nil
	}
	for _, id := range ids {
		if !d.Has(id) {
			return Plan{}, errors.New(errors.ErrCodeElementNotFound, "element %s not found", id)
		}
	}
	doomed := unitsOf(d, ids)
	if policy == RejectMembers {
		for _, id := range ids {
			if p := parentOf(d, id); p != "" && !slices.Contains(doomed, p) {
				return Plan{}, errors.New(errors.ErrCodeGroupMember, "%s belongs to group %s; ungroup it or delete the group", id, p)
			}
		}
	}
	return removePlan(d, "Delete", doomed), nil
}

// DeleteGroup plans deleting group gid and every element nested in it. It
// is distinct from [Ungroup], which keeps the members.
func DeleteGroup(d *document.Document, gid string) (Plan, error) {
	if _, err := groupElement(d, gid); err != nil {
		return Plan{}, err
	}
	return removePlan(d, "Delete group", unit(d, gid)), nil
}

// removePlan deletes doomed and fixes up every surviving group that lost
// members. Groups emptied in the process are deleted too, and the surviving
// ones are refitted to their remaining members.
func removePlan(d *document.Document, label string, doomed []string) Plan {
	doomed = slices.Clone(doomed)
	touched := map[string]bool{}
	for changed := true; changed; {
		changed = false
		for _, id := range doomed {
			p := parentOf(d, id)
			if p == "" || slices.Contains(doomed, p) {
				continue
			}
			touched[p] = true
			left := without(childrenOf(d, p), doomed)
			if len(left) == 0 {
				doomed = append(doomed, p)
				changed = true
			}
		}
	}

	pend := newPending(d)
	var groups []string
	for id := range touched {
		if !slices.Contains(doomed, id) {
			groups = append(groups, id)
		}
	}
	// Deepest first, so outer groups are fitted around refitted inner ones.
	slices.SortFunc(groups, func(a, b string) int { return len(d.Ancestors(b)) - len(d.Ancestors(a)) })
	for _, id := range groups {
		g := pend.get(id)
		g.Payload = element.Group{ChildIDs: without(g.Children(), doomed)}
		pend.set(g)
		if pend.fit(id) {
			pend.refitAncestors(id)
		}
	}

	var ops []document.Op
	if changed := pend.elements(); len(changed) > 0 {
		ops = append(ops, document.Replace{Elements: changed})
	}
	slices.SortFunc(doomed, func(a, b string) int { return d.IndexOf(a) - d.IndexOf(b) })
	ops = append(ops, document.Delete{IDs: doomed})
	return Plan{Label: label, Op: batch(ops...), Select: []string{}}
}

func childrenOf(d *document.Document, gid string) []string {
	g, _ := d.Get(gid)
	return g.Children()
}
