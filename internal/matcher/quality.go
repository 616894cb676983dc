package matcher

import (
	"context"
	"sort"

	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/internal/rules"
)

// FindAllQualityOptions collects every quality tier the catalog offers for a
// device+service pair. It runs a broad search with a synthetic query, keeps
// only items whose derived (brand, deviceModel, serviceType) match the
// target, groups by that triple, and sorts each group's variants ascending
// by price with unpriced entries last. Groups are recomputed per request,
// never cached.
func (e *Engine) FindAllQualityOptions(ctx context.Context, deviceModel, serviceType string) ([]*models.QualityGroup, error) {
	snap := e.current()
	if snap == nil {
		return nil, models.ErrIndexNotReady
	}

	targetModel := canonicalModel(deviceModel)
	targetService := canonicalService(serviceType)

	synthetic := targetModel + " " + targetService
	candidates, _ := e.runChain(ctx, snap, synthetic, e.cfg.QualityTopK)

	type key struct{ brand, model, service string }
	groups := make(map[key]*models.QualityGroup)
	var order []key
	seen := make(map[string]bool)
	for _, r := range candidates {
		it := r.Item
		if it.DeviceModel != targetModel || it.ServiceType != targetService {
			continue
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		k := key{it.Brand, it.DeviceModel, it.ServiceType}
		g, ok := groups[k]
		if !ok {
			g = &models.QualityGroup{Brand: it.Brand, DeviceModel: it.DeviceModel, ServiceType: it.ServiceType}
			groups[k] = g
			order = append(order, k)
		}
		g.Options = append(g.Options, models.QualityOption{
			QualityTier: it.QualityTier,
			Price:       it.Price,
			RawName:     it.RawName,
		})
	}

	out := make([]*models.QualityGroup, 0, len(order))
	for _, k := range order {
		g := groups[k]
		sort.SliceStable(g.Options, func(i, j int) bool {
			pi, pj := g.Options[i].Price, g.Options[j].Price
			switch {
			case pi == nil:
				return false
			case pj == nil:
				return true
			default:
				return *pi < *pj
			}
		})
		out = append(out, g)
	}
	return out, nil
}

// canonicalModel maps a caller-supplied device label through the device
// table so "iPhone 14" and "iphone 14" address the same group.
func canonicalModel(deviceModel string) string {
	if m := rules.DeviceModel(deviceModel); m != models.DeviceUnknown {
		return m
	}
	return rules.Normalize(deviceModel)
}

// canonicalService maps a service label or synonym to its canonical form.
func canonicalService(serviceType string) string {
	if s := rules.ServiceType(serviceType); s != models.ServiceGeneral {
		return s
	}
	return rules.Normalize(serviceType)
}
