package app

import (
	"github.com/decker502/marble/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyboardInput 键盘（和触摸）输入源
//
// 按键映射：
//   - Enter：开始 / 重新开始
//   - Space：切换所有墙体
//   - N：下一关
//
// 触摸或鼠标点击等同于 Enter，方便移动端开始和重新开始
type KeyboardInput struct{}

// NewKeyboardInput 创建键盘输入源
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{}
}

// IsStartPressed 开始/重新开始
func (k *KeyboardInput) IsStartPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		return true
	}
	return utils.PointerJustPressed()
}

// IsTogglePressed 切换墙体
func (k *KeyboardInput) IsTogglePressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace)
}

// IsNextLevelPressed 下一关
func (k *KeyboardInput) IsNextLevelPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyN)
}
