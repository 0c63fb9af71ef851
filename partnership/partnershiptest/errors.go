package partnershiptest

import "errors"

var errForeignKey = errors.New("lead owner does not exist")
