package service

import (
	"math"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// meritTiers is the fixed leveling table. Tiers are contiguous,
// non-overlapping and ascending; the last tier is open-ended
// (MaxCount -1).
var meritTiers = []model.MeritTier{
	{Level: "初心修行", Color: "#fed7d7", MinCount: 0, MaxCount: 9},
	{Level: "精进行者", Color: "#feebc8", MinCount: 10, MaxCount: 49},
	{Level: "虔诚修士", Color: "#c6f6d5", MinCount: 50, MaxCount: 149},
	{Level: "智慧居士", Color: "#bee3f8", MinCount: 150, MaxCount: 299},
	{Level: "慈悲菩萨", Color: "#d9f2ff", MinCount: 300, MaxCount: 499},
	{Level: "圆满大师", Color: "#ffd6cc", MinCount: 500, MaxCount: -1},
}

// MeritTiers returns a copy of the leveling table for display.
func MeritTiers() []model.MeritTier {
	out := make([]model.MeritTier, len(meritTiers))
	copy(out, meritTiers)
	return out
}

// MeritLevelFor maps a merit count to its tier, the count at which the
// next tier begins, and the 0–100 progress toward it. Progress resets
// to 0 at every tier boundary and is pinned to 100 in the open-ended
// top tier, where NextLevelAt holds the tier's own lower bound.
func MeritLevelFor(count int) model.MeritLevel {
	if count < 0 {
		count = 0
	}
	idx := 0
	for i, t := range meritTiers {
		if count >= t.MinCount && (t.MaxCount < 0 || count <= t.MaxCount) {
			idx = i
			break
		}
	}
	tier := meritTiers[idx]
	if idx == len(meritTiers)-1 {
		return model.MeritLevel{Level: tier.Level, Color: tier.Color, NextLevelAt: tier.MinCount, Progress: 100}
	}
	next := meritTiers[idx+1]
	progress := int(math.Round(float64(count-tier.MinCount) / float64(next.MinCount-tier.MinCount) * 100))
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return model.MeritLevel{Level: tier.Level, Color: tier.Color, NextLevelAt: next.MinCount, Progress: progress}
}
