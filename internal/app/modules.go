package app

import (
	"github.com/specialistvlad/gridedit/internal/registry"
	"github.com/specialistvlad/gridedit/modules/maths"
	"github.com/specialistvlad/gridedit/modules/text"
)

// coreModules is the definitive list of all node type modules that are
// compiled into the gridedit binary.
var coreModules = []registry.Module{
	&maths.Module{},
	&text.Module{},
}
