package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

const graphics = "Graphics"

func col() slot {
	return num("col", "6")
}

func graphicsModules() []node.Module {
	return []node.Module{
		statement("cls", "Clear Screen", graphics, "cls", num("col", "0")),
		statement("flip", "Flip Frame", graphics, "flip"),
		statement("camera", "Set Camera", graphics, "camera", num("x", "0"), num("y", "0")),
		statement("color", "Set Draw Color", graphics, "color", num("col", "6")),
		statement("clip", "Clip Region", graphics, "clip", num("x", "0"), num("y", "0"), num("w", "128"), num("h", "128")),
		statement("pset", "Set Pixel", graphics, "pset", num("x", "0"), num("y", "0"), col()),
		statement("circ", "Draw Circle", graphics, "circ", num("x", "0"), num("y", "0"), num("r", "4"), col()),
		statement("circfill", "Draw Filled Circle", graphics, "circfill", num("x", "0"), num("y", "0"), num("r", "4"), col()),
		statement("oval", "Draw Oval", graphics, "oval", num("x0", "0"), num("y0", "0"), num("x1", "0"), num("y1", "0"), col()),
		statement("ovalfill", "Draw Filled Oval", graphics, "ovalfill", num("x0", "0"), num("y0", "0"), num("x1", "0"), num("y1", "0"), col()),
		statement("rect", "Draw Rectangle", graphics, "rect", num("x0", "0"), num("y0", "0"), num("x1", "0"), num("y1", "0"), col()),
		statement("rectfill", "Draw Filled Rectangle", graphics, "rectfill", num("x0", "0"), num("y0", "0"), num("x1", "0"), num("y1", "0"), col()),
		statement("line", "Draw Line", graphics, "line", num("x0", "0"), num("y0", "0"), num("x1", "0"), num("y1", "0"), col()),
		statement("print", "Print Text", graphics, "print",
			s("text", domain.KindAny, `""`), num("x", "0"), num("y", "0"), col()),
		statement("spr", "Draw Sprite", graphics, "spr",
			req("n", domain.KindNumber), num("x", "0"), num("y", "0"), num("w", "1"), num("h", "1"),
			s("flip_x", domain.KindBoolean, "false"), s("flip_y", domain.KindBoolean, "false")),
		statement("sspr", "Draw Sprite Region", graphics, "sspr",
			num("sx", "0"), num("sy", "0"), num("sw", "8"), num("sh", "8"), num("dx", "0"), num("dy", "0"),
			num("dw", "8"), num("dh", "8"), s("flip_x", domain.KindBoolean, "false"), s("flip_y", domain.KindBoolean, "false")),
		statement("map", "Draw Map", graphics, "map",
			num("celx", "0"), num("cely", "0"), num("sx", "0"), num("sy", "0"),
			num("celw", "128"), num("celh", "64"), num("layer", "0")),
		statement("pal", "Swap Palette", graphics, "pal", num("c0", "0"), num("c1", "0"), num("p", "0")),
		statement("palt", "Set Transparency", graphics, "palt", num("col", "0"), s("t", domain.KindBoolean, "true")),
		statement("fillp", "Fill Pattern", graphics, "fillp", num("p", "0")),
		function("pget", "Get Pixel", graphics, "pget", domain.KindNumber, num("x", "0"), num("y", "0")),
		function("mget", "Get Map Tile", graphics, "mget", domain.KindNumber, num("x", "0"), num("y", "0")),
		function("fget", "Get Sprite Flag", graphics, "fget", domain.KindAny, req("n", domain.KindNumber), num("f", "0")),
		statement("mset", "Set Map Tile", graphics, "mset", num("x", "0"), num("y", "0"), num("v", "0")),
	}
}
