package truth

import "errors"

// ErrTruthIntegrity marks a truth payload that is present but cannot be
// used. It signals a misconfigured secret and is fatal for a run.
var ErrTruthIntegrity = errors.New("truth payload integrity")
