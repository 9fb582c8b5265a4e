// Package input provides decision sources for player-controlled actors and
// the parry tap inputs that go with them.
package input
