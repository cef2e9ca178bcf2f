package format

import "time"

var (
	// mp4Epoch is the reference point of ISO-BMFF and QuickTime times.
	mp4Epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
	// ebmlEpoch is the reference point of Matroska dates.
	ebmlEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// MP4Time converts seconds since 1904-01-01 to time.Time.
func MP4Time(secs uint64) time.Time {
	// time.Duration overflows after ~292 years; step through days.
	const day = uint64(24 * 60 * 60)
	return mp4Epoch.AddDate(0, 0, int(secs/day)).Add(time.Duration(secs%day) * time.Second)
}

// EBMLDate converts signed nanoseconds since 2001-01-01 to time.Time.
func EBMLDate(ns int64) time.Time {
	return ebmlEpoch.Add(time.Duration(ns))
}

// MP4Seconds is the inverse of MP4Time for times at or after the epoch.
func MP4Seconds(t time.Time) uint64 {
	if t.Before(mp4Epoch) {
		return 0
	}
	return uint64(t.Unix() - mp4Epoch.Unix())
}
