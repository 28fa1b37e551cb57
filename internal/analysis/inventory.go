package analysis

import (
	"fmt"
	"strings"

	"github.com/nicoag/go-dota-insights/internal/model"
)

const itemImgBase = "https://cdn.opendota.com"

// inventoryCapacity is the main inventory plus backpack.
const inventoryCapacity = 9

// BuildInventoryTimeline reconstructs the subject's inventory at one-minute
// checkpoints from the purchase log, consuming held components when an
// upgrade is bought. Without a purchase log it falls back to a single
// snapshot of the final item slots.
func BuildInventoryTimeline(player *model.PlayerDetail, durationSeconds int, dir Resolver) []model.InventorySnapshot {
	if player == nil {
		return nil
	}
	if len(player.PurchaseLog) == 0 {
		return finalSlotSnapshot(player, durationSeconds, dir)
	}

	checkpoints := make([]int, 0, durationSeconds/60+2)
	for t := 0; t <= durationSeconds; t += 60 {
		checkpoints = append(checkpoints, t)
	}
	if durationSeconds > 0 && durationSeconds%60 != 0 {
		checkpoints = append(checkpoints, durationSeconds)
	}

	var held []string
	snapshots := make([]model.InventorySnapshot, 0, len(checkpoints))
	applied := 0

	// Purchase log entries arrive time-ordered from the API.
	for _, checkpoint := range checkpoints {
		for applied < len(player.PurchaseLog) && player.PurchaseLog[applied].Time <= checkpoint {
			held = applyPurchase(held, player.PurchaseLog[applied].Key, dir)
			applied++
		}
		snapshots = append(snapshots, model.InventorySnapshot{
			Time:  checkpoint,
			Items: resolveItems(held, dir),
		})
	}
	return snapshots
}

// applyPurchase folds one purchase into the held-item list: consumables and
// recipes are ignored, held components of the purchased item are consumed,
// and the oldest item is evicted when the inventory overflows.
func applyPurchase(held []string, rawKey string, dir Resolver) []string {
	key := normalizeItemKey(rawKey)
	lower := strings.ToLower(key)
	if lower == "recipe" || strings.HasPrefix(lower, "recipe_") {
		return held
	}
	for _, prefix := range []string{"ward_", "smoke", "dust", "tpscroll"} {
		if strings.HasPrefix(lower, prefix) {
			return held
		}
	}

	if item, ok := dir.ItemByKey(key); ok {
		for _, component := range item.Components {
			c := normalizeItemKey(component)
			if strings.HasPrefix(strings.ToLower(c), "recipe") {
				continue
			}
			held = removeFirst(held, c)
		}
	}

	for _, h := range held {
		if h == key {
			return held
		}
	}
	held = append(held, key)
	if len(held) > inventoryCapacity {
		held = held[1:]
	}
	return held
}

func removeFirst(held []string, key string) []string {
	for i, h := range held {
		if h == key {
			return append(held[:i], held[i+1:]...)
		}
	}
	return held
}

// finalSlotSnapshot builds the one-snapshot fallback from the end-of-match
// item slots.
func finalSlotSnapshot(player *model.PlayerDetail, durationSeconds int, dir Resolver) []model.InventorySnapshot {
	slots := []int{
		player.Item0, player.Item1, player.Item2,
		player.Item3, player.Item4, player.Item5,
		player.Backpack0, player.Backpack1, player.Backpack2,
		player.ItemNeutral,
	}

	seen := make(map[string]struct{})
	var keys []string
	for _, id := range slots {
		if id == 0 {
			continue
		}
		key, ok := dir.ItemKeyByID(id)
		if !ok {
			key = fmt.Sprintf("item_%d", id)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	t := durationSeconds
	if t < 0 {
		t = 0
	}
	return []model.InventorySnapshot{{Time: t, Items: resolveItems(keys, dir)}}
}

// resolveItems maps item keys to display entries, copying the slice so later
// snapshots do not alias earlier ones.
func resolveItems(keys []string, dir Resolver) []model.InventoryItem {
	items := make([]model.InventoryItem, 0, len(keys))
	for _, key := range keys {
		item := model.InventoryItem{Key: key, Name: formatItemName(key)}
		if c, ok := dir.ItemByKey(key); ok {
			if c.DisplayName != "" {
				item.Name = c.DisplayName
			}
			if c.Img != "" {
				item.Img = itemImgBase + c.Img
			}
		} else if id, numeric := parseItemIDKey(key); numeric {
			item.Name = fmt.Sprintf("Item %d", id)
		}
		items = append(items, item)
	}
	return items
}

// normalizeItemKey strips the item_ prefix OpenDota sometimes carries on
// purchase log keys. Keys that are purely an unresolved numeric id keep the
// prefix so they stay distinguishable.
func normalizeItemKey(key string) string {
	if _, numeric := parseItemIDKey(key); numeric {
		return key
	}
	return strings.TrimPrefix(key, "item_")
}

// parseItemIDKey recognizes the item_<id> placeholder form.
func parseItemIDKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "item_")
	if !ok || rest == "" {
		return 0, false
	}
	id := 0
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
		id = id*10 + int(r-'0')
	}
	return id, true
}

// formatItemName title-cases an underscore-separated item key.
func formatItemName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
