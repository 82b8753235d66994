package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

func audioModules() []node.Module {
	return []node.Module{
		statement("sfx", "Play Sound Effect", "Audio", "sfx",
			req("n", domain.KindNumber), num("channel", "-1"), num("offset", "0"), num("length", "32")),
		statement("music", "Play Music", "Audio", "music",
			num("n", "0"), num("fade_len", "0"), num("channel_mask", "0")),
	}
}
