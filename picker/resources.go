package picker

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceNames maps CDP resource types to configuration names.
var resourceNames = map[proto.NetworkResourceType]string{
	proto.NetworkResourceTypeImage:      "images",
	proto.NetworkResourceTypeFont:       "fonts",
	proto.NetworkResourceTypeMedia:      "media",
	proto.NetworkResourceTypeStylesheet: "stylesheets",
}

// blockSet normalizes the configured resource list.
func blockSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			set[t] = true
		}
	}
	return set
}

func blocked(set map[string]bool, typ proto.NetworkResourceType) bool {
	if name, ok := resourceNames[typ]; ok {
		return set[name]
	}
	return set[strings.ToLower(string(typ))]
}

// blockResources fails matching requests on page. Picks only need the
// DOM, so heavy assets can be skipped.
func blockResources(page *rod.Page, types []string) *rod.HijackRouter {
	set := blockSet(types)
	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		if blocked(set, h.Request.Type()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}
