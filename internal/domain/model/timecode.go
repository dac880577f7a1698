package model

import "fmt"

// FrameToTimecode renders an absolute frame number as the host's native
// HH:MM:SS:FF representation. The frame-within-second is frame mod fps.
func FrameToTimecode(frame, fps int) string {
	if fps <= 0 {
		fps = 24
	}
	hh := frame / (3600 * fps)
	mm := (frame % (3600 * fps)) / (60 * fps)
	ss := (frame % (60 * fps)) / fps
	ff := frame % fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}

// TimecodeToFrame is the inverse of FrameToTimecode.
func TimecodeToFrame(tc string, fps int) (int, error) {
	if fps <= 0 {
		fps = 24
	}
	var hh, mm, ss, ff int
	if _, err := fmt.Sscanf(tc, "%d:%d:%d:%d", &hh, &mm, &ss, &ff); err != nil {
		return 0, fmt.Errorf("parse timecode %q: %w", tc, err)
	}
	return hh*3600*fps + mm*60*fps + ss*fps + ff, nil
}
