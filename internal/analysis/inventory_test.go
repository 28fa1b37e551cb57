package analysis

import (
	"testing"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// itemResolver returns a fake with boots, phase boots, and a chainmail.
func itemResolver() *fakeResolver {
	f := newFakeResolver()
	f.items = map[string]model.ItemConstants{
		"boots": {ID: 29, Img: "/apps/dota2/images/items/boots_lg.png", DisplayName: "Boots of Speed", Cost: 500},
		"phase_boots": {
			ID: 50, Img: "/apps/dota2/images/items/phase_boots_lg.png", DisplayName: "Phase Boots",
			Cost: 1500, Components: []string{"boots", "blades_of_attack", "chainmail"},
		},
		"chainmail": {ID: 60, DisplayName: "Chainmail", Cost: 550},
		"tango":     {ID: 44, DisplayName: "Tango", Cost: 90},
	}
	f.itemIDs = map[int]string{29: "boots", 50: "phase_boots", 60: "chainmail"}
	return f
}

func snapshotAt(t *testing.T, snapshots []model.InventorySnapshot, seconds int) model.InventorySnapshot {
	t.Helper()
	for _, s := range snapshots {
		if s.Time == seconds {
			return s
		}
	}
	t.Fatalf("no snapshot at %d s", seconds)
	return model.InventorySnapshot{}
}

func itemKeys(s model.InventorySnapshot) []string {
	keys := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		keys = append(keys, it.Key)
	}
	return keys
}

func TestBuildInventoryTimeline_ComponentConsumption(t *testing.T) {
	player := &model.PlayerDetail{
		PurchaseLog: []model.PurchaseLogEntry{
			{Time: 120, Key: "boots"},
			{Time: 150, Key: "chainmail"},
			{Time: 540, Key: "phase_boots"},
		},
	}

	snapshots := BuildInventoryTimeline(player, 660, itemResolver())

	at180 := snapshotAt(t, snapshots, 180)
	keys := itemKeys(at180)
	if len(keys) != 2 || keys[0] != "boots" || keys[1] != "chainmail" {
		t.Errorf("at 180s: %v, want [boots chainmail]", keys)
	}

	at600 := snapshotAt(t, snapshots, 600)
	keys = itemKeys(at600)
	if len(keys) != 1 || keys[0] != "phase_boots" {
		t.Errorf("at 600s: %v, want components consumed into [phase_boots]", keys)
	}
	if at600.Items[0].Name != "Phase Boots" {
		t.Errorf("name = %q, want Phase Boots", at600.Items[0].Name)
	}
	if at600.Items[0].Img != "https://cdn.opendota.com/apps/dota2/images/items/phase_boots_lg.png" {
		t.Errorf("img = %q", at600.Items[0].Img)
	}
}

func TestBuildInventoryTimeline_CheckpointShape(t *testing.T) {
	player := &model.PlayerDetail{
		PurchaseLog: []model.PurchaseLogEntry{{Time: 0, Key: "tango"}},
	}

	snapshots := BuildInventoryTimeline(player, 150, itemResolver())

	if len(snapshots) != 4 {
		t.Fatalf("got %d snapshots, want 4 (0, 60, 120, 150)", len(snapshots))
	}
	times := []int{0, 60, 120, 150}
	for i, want := range times {
		if snapshots[i].Time != want {
			t.Errorf("snapshot[%d].Time = %d, want %d", i, snapshots[i].Time, want)
		}
	}
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].Time <= snapshots[i-1].Time {
			t.Error("checkpoint times must be strictly increasing")
		}
	}
}

func TestBuildInventoryTimeline_SkipsConsumablesAndRecipes(t *testing.T) {
	player := &model.PlayerDetail{
		PurchaseLog: []model.PurchaseLogEntry{
			{Time: 10, Key: "tango"},
			{Time: 20, Key: "ward_observer"},
			{Time: 30, Key: "smoke_of_deceit"},
			{Time: 40, Key: "dust_of_appearance"},
			{Time: 50, Key: "tpscroll"},
			{Time: 55, Key: "recipe_phase_boots"},
			{Time: 58, Key: "boots"},
		},
	}

	snapshots := BuildInventoryTimeline(player, 60, itemResolver())
	keys := itemKeys(snapshotAt(t, snapshots, 60))
	want := []string{"tango", "boots"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestBuildInventoryTimeline_OverflowEvictsOldest(t *testing.T) {
	log := make([]model.PurchaseLogEntry, 0, 10)
	for i := 0; i < 10; i++ {
		log = append(log, model.PurchaseLogEntry{Time: i, Key: keyFor(i)})
	}
	player := &model.PlayerDetail{PurchaseLog: log}

	snapshots := BuildInventoryTimeline(player, 60, newFakeResolver())
	keys := itemKeys(snapshotAt(t, snapshots, 60))

	if len(keys) != 9 {
		t.Fatalf("got %d items, want 9", len(keys))
	}
	if keys[0] != keyFor(1) {
		t.Errorf("oldest item should have been evicted, keys = %v", keys)
	}
	if keys[8] != keyFor(9) {
		t.Errorf("newest item missing, keys = %v", keys)
	}
}

func keyFor(i int) string {
	return string(rune('a'+i)) + "_blade"
}

func TestBuildInventoryTimeline_NoPurchaseLogFallback(t *testing.T) {
	player := &model.PlayerDetail{
		Item0:       29,
		Item1:       50,
		Item2:       50, // duplicate slot ids collapse
		Backpack0:   60,
		ItemNeutral: 9999, // unknown id
	}

	snapshots := BuildInventoryTimeline(player, 2400, itemResolver())
	if len(snapshots) != 1 {
		t.Fatalf("got %d snapshots, want single final snapshot", len(snapshots))
	}
	if snapshots[0].Time != 2400 {
		t.Errorf("snapshot time = %d, want 2400", snapshots[0].Time)
	}

	keys := itemKeys(snapshots[0])
	want := []string{"boots", "phase_boots", "chainmail", "item_9999"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	last := snapshots[0].Items[len(snapshots[0].Items)-1]
	if last.Name != "Item 9999" {
		t.Errorf("unknown item name = %q, want Item 9999", last.Name)
	}
}

func TestBuildInventoryTimeline_SnapshotsDoNotAlias(t *testing.T) {
	player := &model.PlayerDetail{
		PurchaseLog: []model.PurchaseLogEntry{
			{Time: 10, Key: "boots"},
			{Time: 70, Key: "chainmail"},
		},
	}

	snapshots := BuildInventoryTimeline(player, 120, itemResolver())
	first := snapshotAt(t, snapshots, 0)
	if len(first.Items) != 0 {
		t.Errorf("at 0s: %v, want empty", itemKeys(first))
	}
	at60 := snapshotAt(t, snapshots, 60)
	if len(at60.Items) != 1 {
		t.Errorf("at 60s: %v, want [boots]", itemKeys(at60))
	}
	at120 := snapshotAt(t, snapshots, 120)
	if len(at120.Items) != 2 {
		t.Errorf("at 120s: %v, want [boots chainmail]", itemKeys(at120))
	}
}

func TestFormatItemName(t *testing.T) {
	cases := []struct{ key, want string }{
		{"phase_boots", "Phase Boots"},
		{"blink", "Blink"},
		{"black_king_bar", "Black King Bar"},
	}
	for _, tc := range cases {
		if got := formatItemName(tc.key); got != tc.want {
			t.Errorf("formatItemName(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestNormalizeItemKey(t *testing.T) {
	cases := []struct{ key, want string }{
		{"item_blink", "blink"},
		{"blink", "blink"},
		{"item_9999", "item_9999"}, // numeric placeholders keep the prefix
	}
	for _, tc := range cases {
		if got := normalizeItemKey(tc.key); got != tc.want {
			t.Errorf("normalizeItemKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}
