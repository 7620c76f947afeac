package lobby

import (
	"math/rand"
	"sync"

	"cardroom.io/server/util"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

var codeRand = rand.New(rand.NewSource(util.NewSeed()))
var codeRandMu sync.Mutex

// newSessionCode generates a 6-character uppercase alphanumeric code used as
// the session's document key. Collisions are astronomically unlikely at this
// scale and are not checked, matching the source system.
func newSessionCode() string {
	codeRandMu.Lock()
	defer codeRandMu.Unlock()
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[codeRand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
