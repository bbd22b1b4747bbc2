package formatters

import (
	"path"
	"strings"

	"github.com/LegacyCodeHQ/p4migrate/assetpath"
)

// BuildNodeNames returns stable, distinct display names for asset paths.
// Assets that share a package name are disambiguated by increasing path
// suffix depth.
func BuildNodeNames(assets []string) map[string]string {
	names := make(map[string]string, len(assets))
	groupedByBase := make(map[string][]string, len(assets))
	for _, asset := range assets {
		base := assetpath.BaseName(asset)
		groupedByBase[base] = append(groupedByBase[base], asset)
	}

	for base, grouped := range groupedByBase {
		if len(grouped) == 1 {
			names[grouped[0]] = base
			continue
		}

		for depth := 2; ; depth++ {
			suffixCounts := make(map[string]int, len(grouped))
			for _, asset := range grouped {
				suffixCounts[pathSuffix(asset, depth)]++
			}

			allDistinct := true
			maxed := true
			for _, asset := range grouped {
				if suffixCounts[pathSuffix(asset, depth)] > 1 {
					allDistinct = false
				}
				if depth < segmentCount(asset) {
					maxed = false
				}
			}
			if !allDistinct && !maxed {
				continue
			}

			for _, asset := range grouped {
				names[asset] = pathSuffix(asset, depth)
			}
			break
		}
	}

	return names
}

func segmentCount(asset string) int {
	return len(strings.Split(strings.TrimPrefix(path.Clean(asset), "/"), "/"))
}

func pathSuffix(asset string, depth int) string {
	parts := strings.Split(strings.TrimPrefix(path.Clean(asset), "/"), "/")
	if depth > len(parts) {
		depth = len(parts)
	}
	return strings.Join(parts[len(parts)-depth:], "/")
}
