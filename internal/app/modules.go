package app

import (
	"github.com/vk/pluginhost/internal/extension"
	"github.com/vk/pluginhost/modules/consolelog"
	"github.com/vk/pluginhost/modules/httpreport"
	"github.com/vk/pluginhost/modules/socketiosink"
)

// coreBuiltins are the extension modules compiled into the host. They seed
// the registry before any on-disk discovery, so first-wins merging keeps
// their identities from being shadowed.
var coreBuiltins = []extension.Builtin{
	consolelog.New(),
	httpreport.New(""),
	socketiosink.New("", "/"),
}
