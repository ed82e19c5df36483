package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out output paths so that no two inputs write the
// same file. WebP migration needs it: "IMG_1.jpg" and "IMG_1.jpeg" would
// otherwise both become "IMG_1.webp", and the second write would destroy
// the first after its source was deleted. Paths are compared
// case-insensitively, since "IMG_1.webp" and "img_1.webp" are one file on
// the filesystems photo sets usually live on.
//
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owner  map[string]string // folded output path → input that claimed it
	nextID map[string]int    // folded requested path → next " - dupN" to try
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owner:  make(map[string]string),
		nextID: make(map[string]int),
	}
}

// Resolve returns the output path input should write. The requested path
// is returned when it is free or already claimed by input; otherwise the
// first free "<stem> - dupN<ext>" variant is claimed and returned.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.claim(input, requested) {
		return requested
	}

	key := fold(requested)
	n := max(1, cr.nextID[key])
	for ; ; n++ {
		candidate := dupPath(requested, n)
		if cr.claim(input, candidate) {
			cr.nextID[key] = n + 1
			return candidate
		}
	}
}

// claim records input as the owner of path if path is free or already its.
func (cr *CollisionResolver) claim(input, path string) bool {
	key := fold(path)
	if owner, taken := cr.owner[key]; taken && owner != input {
		return false
	}
	cr.owner[key] = input
	return true
}

func dupPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s - dup%d%s", strings.TrimSuffix(path, ext), n, ext)
}

func fold(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
