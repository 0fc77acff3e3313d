package skeleton

import "strings"

// FindByName returns the first joint whose display name equals name,
// ignoring case. Partial matches do not count.
func FindByName(joints []JointData, name string) (JointData, bool) {
	for _, j := range joints {
		if strings.EqualFold(j.Name, name) {
			return j, true
		}
	}
	return JointData{}, false
}

// FindByJoint returns the first entry for the given joint.
func FindByJoint(joints []JointData, joint Joint) (JointData, bool) {
	for _, j := range joints {
		if j.Joint == joint {
			return j, true
		}
	}
	return JointData{}, false
}
