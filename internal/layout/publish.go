package layout

import (
	"bytes"
	"context"
	"fmt"
	"peopledb/internal/reports/core"
	"strconv"

	"github.com/goccy/go-json"
)

// KeyPrefix namespaces harness reports inside a report store.
const KeyPrefix = "layoutbench/"

// Key returns the store key for r.
func Key(r Report) string {
	return KeyPrefix + r.StartedAt.UTC().Format("20060102T150405Z") + "-" + r.ID + ".json"
}

// Publish writes r as JSON to store.
func Publish(ctx context.Context, store core.Store, r Report) (core.Info, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return core.Info{}, fmt.Errorf("encode report: %w", err)
	}
	info, err := store.Put(ctx, Key(r), bytes.NewReader(body), core.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"records":  strconv.Itoa(r.Records),
			"verified": strconv.FormatBool(r.Verified),
		},
	})
	if err != nil {
		return core.Info{}, fmt.Errorf("publish report %s: %w", r.ID, err)
	}
	return info, nil
}
