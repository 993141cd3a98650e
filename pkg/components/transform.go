package components

import "github.com/decker502/marble/pkg/utils"

// TransformComponent 实体在世界中的位置和朝向
type TransformComponent struct {
	Position utils.Vec3
	Rotation utils.Quat
}
