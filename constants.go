package herlang

// herKeyWords are the HER names that can never be bound by `let`.
// 女性是不能被定义滴.
var herKeyWords = map[string]bool{
	"女性":     true,
	"her":    true,
	"女":      true,
	"female": true,
	"woman":  true,
	"girl":   true,
	"lady":   true,
}

// IsProtectedName reports whether name is one of the HER words that `let`
// refuses to bind.
func IsProtectedName(name string) bool { return herKeyWords[name] }
