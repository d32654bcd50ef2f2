package testutil

import (
	"github.com/google/uuid"
)

// Fixed identifiers for deterministic tests.
var (
	TestApplicationID1 = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	TestApplicationID2 = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	TestDocumentID1    = uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	TestDocumentID2    = uuid.MustParse("00000000-0000-0000-0000-0000000000d2")
)
