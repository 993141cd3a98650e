package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate 音频上下文采样率
const SampleRate = 48000

// 音效ID
const (
	SoundBallDestroyed = "ball_destroyed" // 尖刺墙销毁弹珠
	SoundLevelComplete = "level_complete" // 关卡完成
	SoundWallStop      = "wall_stop"      // 墙体到位
)

// toneParams 合成音效的参数
type toneParams struct {
	freqs    []float64 // 依次播放的频率（Hz）
	duration float64   // 每个频率持续的秒数
}

// soundTones 项目不带音频文件，音效全部由简单音调合成
var soundTones = map[string]toneParams{
	SoundBallDestroyed: {freqs: []float64{220, 140}, duration: 0.08},
	SoundLevelComplete: {freqs: []float64{523.25, 659.25, 783.99, 1046.5}, duration: 0.12},
	SoundWallStop:      {freqs: []float64{90}, duration: 0.05},
}

// AudioManager 音频管理器
// 职责：
//   - 按音效ID播放合成音效
//   - 与设置联动：音效开关和音量从 SettingsManager 读取
//
// context 为 nil 时（测试、无音频设备）所有播放请求静默失败
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（音效ID -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文（可为 nil）
//   - sm: SettingsManager 实例（用于读取音效设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
	}
}

// PlaySound 播放音效
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am == nil || am.context == nil {
		return false
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// getSoundPlayer 获取或创建音效播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, ok := am.soundPlayers[soundID]; ok {
		return player
	}

	tone, ok := soundTones[soundID]
	if !ok {
		log.Printf("[AudioManager] Warning: unknown sound %s", soundID)
		return nil
	}

	player := am.context.NewPlayerFromBytes(SynthesizeTones(tone.freqs, tone.duration, SampleRate))
	am.soundPlayers[soundID] = player
	return player
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}

// SynthesizeTones 依次合成若干正弦音，输出 16 位小端立体声 PCM
// 每个音调线性淡出，避免相邻音调之间的爆音
func SynthesizeTones(freqs []float64, duration float64, sampleRate int) []byte {
	perTone := int(duration * float64(sampleRate))
	if perTone <= 0 || len(freqs) == 0 {
		return nil
	}

	buf := make([]byte, 0, perTone*len(freqs)*4)
	frame := make([]byte, 4)
	for _, freq := range freqs {
		for i := 0; i < perTone; i++ {
			envelope := 1 - float64(i)/float64(perTone)
			v := math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * envelope * 0.3
			sample := uint16(int16(v * math.MaxInt16))
			binary.LittleEndian.PutUint16(frame[0:], sample)
			binary.LittleEndian.PutUint16(frame[2:], sample)
			buf = append(buf, frame...)
		}
	}
	return buf
}
