package mapper

import "gonum.org/v1/gonum/spatial/r3"

// LookRayDistance is how far along the camera-to-head ray the aim point is
// placed, in world units.
const LookRayDistance = 1000.0

// LookTarget computes a world-space point for an avatar to look at so that
// it appears to look at the tracked person through the virtual camera,
// regardless of where that camera sits.
//
// headMM is the person's head in sensor space, sensor places the physical
// sensor in the world and camera is the virtual camera.
func (m Mapper) LookTarget(headMM r3.Vec, sensor, camera CameraPlacement, avatarHead r3.Vec, aimDistance float64) r3.Vec {
	headWorld := sensor.TransformPosition(m.SensorToLocal(headMM))
	dirCam := safeUnit(camera.InverseTransformPosition(headWorld))

	onRay := r3.Add(camera.Translation, r3.Scale(LookRayDistance, camera.TransformDirection(dirCam)))
	aim := safeUnit(r3.Sub(onRay, avatarHead))

	return r3.Add(avatarHead, r3.Scale(aimDistance, aim))
}

// safeUnit is r3.Unit with a zero result for (near) zero vectors.
func safeUnit(v r3.Vec) r3.Vec {
	if r3.Norm(v) < 1e-8 {
		return r3.Vec{}
	}
	return r3.Unit(v)
}
