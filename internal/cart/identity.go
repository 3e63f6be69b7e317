package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// LineID derives the deterministic identity key for a configured product.
// Selections are canonicalized (sorted, zero-quantity addons dropped) before
// hashing, so permuting the input order yields the same key. The key covers
// the product ID, the selected modifier IDs, and the addon IDs with their
// quantities; prices are not part of identity.
func LineID(productID uuid.UUID, modifiers []types.ModifierSelection, addons []types.AddonSelection) string {
	modKeys := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		modKeys = append(modKeys, fmt.Sprintf("m:%s:%s", m.GroupID, m.ModifierID))
	}
	sort.Strings(modKeys)

	addonKeys := make([]string, 0, len(addons))
	for _, a := range addons {
		if a.Quantity <= 0 {
			continue
		}
		addonKeys = append(addonKeys, fmt.Sprintf("a:%s:%d", a.AddonID, a.Quantity))
	}
	sort.Strings(addonKeys)

	var b strings.Builder
	b.WriteString("p:")
	b.WriteString(productID.String())
	for _, k := range modKeys {
		b.WriteByte('|')
		b.WriteString(k)
	}
	for _, k := range addonKeys {
		b.WriteByte('|')
		b.WriteString(k)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
