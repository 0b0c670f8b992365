// Package sound plays the client's audio cues.
package sound

import "github.com/palemoky/reversi/internal/client"

// DefaultDir 默认音效目录
const DefaultDir = "assets/sounds"

// 音效文件名（不含扩展名）
const (
	SoundStone = "stone"
	SoundPass  = "pass"
	SoundWin   = "win"
	SoundLose  = "lose"
	SoundDraw  = "draw"
	SoundAlert = "alert"
)

// CueName 提示对应的音效名，CueNone 返回空串
func CueName(c client.Cue) string {
	switch c {
	case client.CueStone:
		return SoundStone
	case client.CuePass:
		return SoundPass
	case client.CueWin:
		return SoundWin
	case client.CueLose:
		return SoundLose
	case client.CueDraw:
		return SoundDraw
	case client.CueAlert:
		return SoundAlert
	}
	return ""
}

// PlayCue 播放提示对应的音效
func (sm *SoundManager) PlayCue(c client.Cue) {
	if name := CueName(c); name != "" {
		sm.Play(name)
	}
}
