package telegram

// UI texts in English
const (
	helpText = "💊 I remind the group about the morning and evening medicine.\n\n" +
		"Reply to one of my reminders with \"done\" (or \"done morning\" / \"done evening\") to log a dose. " +
		"Ask \"status\" in the group to see today's doses.\n\n" +
		"Private test commands:\n" +
		"/test_morning – run the morning reminder now\n" +
		"/test_evening – run the evening reminder now\n" +
		"/test_reset – run the daily reset now\n" +
		"/status – today's doses"
	testMorningText    = "OK, triggering the morning reminder sequence now..."
	testEveningText    = "OK, triggering the evening reminder sequence now..."
	testResetText      = "OK, triggering the daily reset now..."
	unknownCommandText = "Unknown command. Try /help."
)
