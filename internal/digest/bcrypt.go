package digest

import "golang.org/x/crypto/bcrypt"

// bcryptScheme verifies candidates with bcrypt's own routine. The cost and
// salt come from the target hash.
type bcryptScheme struct{}

func (bcryptScheme) Name() Name { return NameBcrypt }

func (bcryptScheme) Kind() Kind { return KindAdaptive }

func (bcryptScheme) sealed() {}

func (bcryptScheme) Matches(candidate []byte, target string) bool {
	return bcrypt.CompareHashAndPassword([]byte(target), candidate) == nil
}

// bcryptPrefixes are the modular crypt identifiers of bcrypt revisions.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2x$", "$2y$"}
