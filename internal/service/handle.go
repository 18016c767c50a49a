package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// handleExistsFunc reports whether a candidate handle is already taken.
type handleExistsFunc func(ctx context.Context, handle string) (bool, error)

// generateHandle derives a unique handle from a display name: the name
// lowercased with all whitespace stripped, suffixed with a dot and a
// random four digit number. Collisions retry with a fresh suffix until a
// free one turns up; the only failure modes are a store error or a
// cancelled context.
func generateHandle(ctx context.Context, name string, random *rand.Rand, exists handleExistsFunc) (string, error) {
	base := normalizeHandleBase(name)
	if base == "" {
		base = "user"
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := fmt.Sprintf("%s.%d", base, 1000+random.Intn(9000))
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func normalizeHandleBase(name string) string {
	var builder strings.Builder
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		builder.WriteRune(unicode.ToLower(r))
	}
	return builder.String()
}
