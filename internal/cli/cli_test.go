package cli

import (
	"testing"

	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/pkg/config"
)

func TestSiteMatchesDefaults(t *testing.T) {
	got := Site(config.Default())
	if got != header.DefaultSite() {
		t.Errorf("Site(Default()) = %+v, expected %+v", got, header.DefaultSite())
	}
}
