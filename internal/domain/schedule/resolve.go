package schedule

// Resolve returns the normalized working windows of date.
// An exception for date replaces the weekly entry entirely; a nil weekly means no recurring hours.
func Resolve(weekly *Weekly, exc *Exception, date Date) []Window {
	if exc != nil && exc.Date().Equal(date) {
		if exc.Type() == ExceptionFullDayOff {
			return nil
		}
		return Normalize(exc.Ranges())
	}
	if weekly == nil {
		return nil
	}
	w, ok := weekly.Day(date.Weekday()).Window()
	if !ok {
		return nil
	}
	return Normalize([]Window{w})
}
