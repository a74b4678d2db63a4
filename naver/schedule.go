package naver

import (
	"fmt"
	"time"
)

// ValidateSchedule 检查预约发布时间。目标日期是今天时，
// 时分必须严格晚于现在；未来日期任何时分都有效。
func ValidateSchedule(now, date time.Time, hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("预约时间无效: %02d:%02d", hour, minute)
	}

	target := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if target.Before(today) {
		return fmt.Errorf("预约日期不能早于今天")
	}
	if sameDate(target, now) && !target.After(now) {
		return fmt.Errorf("预约时间必须晚于当前时间")
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
