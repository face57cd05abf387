package bot

// copy.go holds the command-level message copy. Flow prompts live with the
// flow engine; everything the command handlers say directly lives here.

const (
	msgGreeting = "\U0001F44B Hello! I'm your senior care assistant.\n\n" +
		"I can help you keep track of your medications, remind you when to " +
		"take them, and let your family know you're okay.\n\n" + msgHelp

	msgHelp = "Available commands:\n" +
		"/medications - add or update your medications\n" +
		"/schedule - see your medication schedule\n" +
		"/remind - turn reminders on or off\n" +
		"/family - manage family contacts\n" +
		"/report - your weekly medication report\n" +
		"/emergency - share your location with your contacts\n" +
		"/history - your recent shared locations\n" +
		"/fall - send a fall alert\n" +
		"/cancel - stop what we were doing"

	msgEmergencyHowTo = "\U0001F4CD EMERGENCY LOCATION HELP\n\n" +
		"1. Tap the paperclip \U0001F4CE or '+' icon in Telegram's message bar.\n" +
		"2. Select 'Location' or 'Share Location'.\n" +
		"3. Choose 'Send your current location'.\n\n" +
		"Your family will be notified immediately with your location.\n\n" +
		"If you need further help, reply with /help or contact your care team."

	msgLocationSent  = "✅ Your location has been sent to your contacts.\nMap: %s"
	msgLocationAlert = "\U0001F6A8 Emergency! %s has shared their location:\n%s"

	msgHistoryHeader = "\U0001F4CD Your recent locations:"
	msgHistoryEmpty  = "No location history found."

	msgFallQuestion = "Have you fallen? Please confirm."
	msgFallAlert    = "\U0001F6A8 Fall alert! %s may need help."
	msgFallSent     = "✅ Fall alert sent to your contacts. Help is on the way, stay calm."
	msgFallSafe     = "Glad you're safe! No alert sent."

	msgDoseLogged   = "✅ %s logged! Well done!"
	msgDoseSnoozed  = "⏰ I'll remind you about %s again in %d minutes."
	msgReminderGone = "That reminder isn't active anymore."

	msgReportFailed = "⚠️ Sorry, I couldn't build your report right now. Please try again."
)

// Callback token namespaces owned by the bot layer (the flow engine owns the
// rest; see flow package token constants).
const (
	tokTakenPrefix  = "taken|"
	tokSnoozePrefix = "snooze|"
	tokFallYes      = "fall|yes"
	tokFallNo       = "fall|no"
)
