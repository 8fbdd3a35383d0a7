package payments

import "math"

// DepositRate is the fixed upfront share of the booking total required to
// confirm a booking.
const DepositRate = 0.10

// Currency is the only currency the platform transacts in. Booking and
// payment rows hold whole rupees; the gateway boundary speaks paise.
const Currency = "INR"

// ComputeDeposit derives the deposit from a booking total in whole rupees,
// rounding half-up. Callers guarantee totalAmount > 0.
func ComputeDeposit(totalAmount int64) int64 {
	return int64(math.Floor(float64(totalAmount)*DepositRate + 0.5))
}

// ComputeTotalFromDeposit is the inverse of ComputeDeposit, used to sanity
// check stored amounts.
func ComputeTotalFromDeposit(depositAmount int64) int64 {
	return int64(math.Floor(float64(depositAmount)/DepositRate + 0.5))
}

// DepositMatches reports whether a stored deposit agrees with a fresh
// computation from the total, within one rupee of rounding tolerance.
func DepositMatches(storedDeposit, totalAmount int64) bool {
	diff := storedDeposit - ComputeDeposit(totalAmount)
	return diff >= -1 && diff <= 1
}

// ToPaise converts whole rupees to the gateway's minor-unit convention. The
// conversion happens exactly once, at order initiation.
func ToPaise(rupees int64) int64 {
	return rupees * 100
}

// FromPaise converts a gateway amount back to whole rupees, rounding half-up.
func FromPaise(paise int64) int64 {
	return (paise + 50) / 100
}
