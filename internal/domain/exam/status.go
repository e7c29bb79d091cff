package exam

import (
	"github.com/citotrack/citotrack/internal/platform/auth"
	"github.com/citotrack/citotrack/pkg/dateutil"
)

// EffectiveStatuses returns the ordered status list for one exam,
// computed fresh on every call. The commercial follow-up stage exists
// only when a return type is set and is not immediate: immediate
// returns collapse notification and follow-up into one step.
func EffectiveStatuses(e *Exam) []string {
	list := []string{
		StatusSampleCollected,
		StatusLabCollected,
		StatusResultReleased,
		StatusOpinionIssued,
		StatusPatientNotified,
	}
	if e.ReturnType != nil && *e.ReturnType != "" && *e.ReturnType != dateutil.ReturnImmediate {
		list = append(list, StatusCommercialNotified)
	}
	return list
}

// statusOrder is the full six-stage progression, used for position
// comparisons. An immediate exam's effective list omits the final
// stage, yet its status becomes the final one through the
// notification cascade, so ordering must not depend on list
// membership.
var statusOrder = []string{
	StatusSampleCollected,
	StatusLabCollected,
	StatusResultReleased,
	StatusOpinionIssued,
	StatusPatientNotified,
	StatusCommercialNotified,
}

func statusIndex(list []string, status string) int {
	for i, s := range list {
		if s == status {
			return i
		}
	}
	return -1
}

// NextStatus computes the target of an advance, or false when the exam
// is already at the end of its effective list.
func NextStatus(e *Exam) (string, bool) {
	list := EffectiveStatuses(e)
	idx := statusIndex(list, e.Status)
	if idx < 0 || idx+1 >= len(list) {
		return "", false
	}
	return list[idx+1], true
}

// AtOrPast reports whether the exam has reached status in the
// workflow progression.
func AtOrPast(e *Exam, status string) bool {
	cur := statusIndex(statusOrder, e.Status)
	target := statusIndex(statusOrder, status)
	return cur >= 0 && target >= 0 && cur >= target
}

// transitionRoles is the fixed authorization table keyed by target
// status. The doctor entry for Medical Opinion Issued additionally
// requires being the exam's assigned physician, checked in
// roleAllowed.
var transitionRoles = map[string][]auth.Role{
	StatusLabCollected:       {auth.RoleSecretary, auth.RoleAdmin, auth.RoleSuperuser},
	StatusResultReleased:     {auth.RoleSecretary, auth.RoleAdmin, auth.RoleSuperuser},
	StatusOpinionIssued:      {auth.RoleDoctor, auth.RoleAdmin, auth.RoleSuperuser},
	StatusPatientNotified:    {auth.RoleSecretary, auth.RoleAdmin, auth.RoleSuperuser},
	StatusCommercialNotified: {auth.RoleSecretary, auth.RoleAdmin, auth.RoleSuperuser},
}

// roleAllowed checks the transition table for a move into target.
func roleAllowed(sess auth.Session, e *Exam, target string) bool {
	allowed, ok := transitionRoles[target]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if sess.Role != r {
			continue
		}
		if r == auth.RoleDoctor && target == StatusOpinionIssued && sess.UserID != e.DoctorID {
			continue
		}
		return true
	}
	return false
}

// canEditOpinion is the ownership predicate for opinion changes: the
// assigned physician, or an elevated role.
func canEditOpinion(sess auth.Session, e *Exam) bool {
	if sess.Role == auth.RoleDoctor && sess.UserID == e.DoctorID {
		return true
	}
	return sess.Role.Elevated()
}
