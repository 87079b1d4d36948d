package fw

import "errors"

var errInvalidStrategyName = errors.New("fw: strategy instance name carries parameters or an unsupported version")
