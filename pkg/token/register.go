package token

import (
	"strings"
	"sync"
)

var (
	registryMu      sync.RWMutex
	nextTokenID     = maxBuiltin
	dynamicTokens   = make(map[TokenType]string)
	dynamicKeywords = make(map[string]TokenType)
)

// Register registers a dialect keyword such as QUALIFY or PIVOT and returns its token type.
// Registering the same name twice returns the same type.
func Register(name string) TokenType {
	name = strings.ToUpper(name)

	registryMu.Lock()
	defer registryMu.Unlock()

	if t, ok := dynamicKeywords[name]; ok {
		return t
	}
	nextTokenID++
	t := nextTokenID
	dynamicTokens[t] = name
	dynamicKeywords[name] = t
	return t
}

func getDynamicName(t TokenType) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a registered keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if tok, ok := dynamicKeywords[strings.ToUpper(name)]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}
