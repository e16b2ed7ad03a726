package classifier

import "encoding/gob"

// The concrete predictor types are registered so a Classifier can travel
// through gob as an interface value.
func init() {
	gob.Register(&KNN{})
	gob.Register(&Forest{})
	gob.Register(&Boost{})
}
