package physics

import "github.com/35niavlys/speedfng/internal/opt"

func someID(id int) opt.Value[int] {
	return opt.Some(id)
}
