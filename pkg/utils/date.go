package utils

import (
	"time"
)

// vnpayTimeLayout is the compact 14-digit timestamp VNPay uses in vnp_PayDate
// and vnp_CreateDate.
const vnpayTimeLayout = "20060102150405"

// ParseVNPayTimestamp parses a vnp_PayDate value into a UTC instant. A value of
// any length other than 14 is treated as absent and yields (nil, nil); a
// 14-character value that is not a valid timestamp is an error.
func ParseVNPayTimestamp(payDate string) (*time.Time, error) {
	if len(payDate) != 14 {
		return nil, nil
	}

	t, err := time.Parse(vnpayTimeLayout, payDate)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func FormatVNPayTimestamp(t time.Time) string {
	return t.UTC().Format(vnpayTimeLayout)
}

func ConvertDateTimeToHumanReadableFormat(datetime int64) string {
	t := time.Unix(datetime, 0)
	return t.UTC().Format("02 January 2006, 15:04 UTC")
}
