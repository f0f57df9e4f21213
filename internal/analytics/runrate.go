package analytics

// DailyVisitors returns the average visitors per day over the runtime,
// 0 when the runtime is not positive.
func DailyVisitors(totalVisitors, runtimeDays int) float64 {
	if runtimeDays <= 0 {
		return 0
	}
	return float64(totalVisitors) / float64(runtimeDays)
}

// DailyOrders returns the average orders per day over the runtime.
func DailyOrders(totalOrders, runtimeDays int) float64 {
	if runtimeDays <= 0 {
		return 0
	}
	return float64(totalOrders) / float64(runtimeDays)
}

// DaysToTargetOrders estimates days until a target order count is
// reached at the current daily rate. Returns 0 when the target is
// already met and -1 when the rate is not positive.
func DaysToTargetOrders(currentOrders, targetOrders int, dailyRate float64) int {
	if dailyRate <= 0 {
		return -1
	}
	remaining := targetOrders - currentOrders
	if remaining <= 0 {
		return 0
	}
	return int(float64(remaining)/dailyRate) + 1
}
