package flow

// prompts.go collects the user-facing copy emitted by the forms. Keeping the
// wording in one file makes it easy to tweak without touching the state
// machine. The wording is product copy, not a contract.

const (
	msgSchedulePrefix = "\U0001F4CB Your Medications and Schedule:"
	msgScheduleEmpty  = "You have no medications scheduled."

	msgPickIllness = "Would you like to add or update a medication?\n" +
		"Please tap the condition that matches your medicine, or choose 'Other'."
	msgPickIllnessAgain = "Please tap one of the conditions below, or choose 'Other'."

	msgAskName      = "What is the name of your medicine?\nPlease enter the name below."
	msgAskNameAgain = "Please enter a valid medication name."

	msgAskDosage = "How much %s do you take each time? (e.g., 10mg)\nPlease enter the dosage."

	msgAskTimes = "When do you want to be reminded to take %s?\n" +
		"Please enter the times in 24h format, separated by commas (e.g., 08:00, 20:00)."
	msgAskTimesAgain = "I couldn't read any of those times. Please use 24h format, " +
		"separated by commas (e.g., 08:00, 20:00)."

	msgReview = "Please review your entry:\n\n" +
		"Medicine: %s\nDosage: %s\nReminder times: %s\n\n" +
		"Is everything correct? You can update any field."
	msgFinalReview = "Final review:\n\n" +
		"Medicine: %s\nDosage: %s\nReminder times: %s\n\n" +
		"Is everything correct? Please confirm to save."

	msgSavedNew     = "✅ All set! I'll remind you to take %s (%s) at %s.\n(Added as a new medication.)"
	msgSavedUpdate  = "✅ All set! I'll remind you to take %s (%s) at %s.\n(Updated your previous entry.)"
	msgAskMore      = "Do you wish to input or update another medication?"
	msgAskMoreAgain = "Please choose Yes or No."

	msgSaveFailed = "⚠️ Sorry, I could not save that right now. Please try again."
	msgCancelled  = "Okay, I've discarded that entry. Nothing was saved."
	msgFallback   = "Sorry, I didn't understand that. Use /help for commands."

	msgMedDeleted  = "Medication deleted. Your family has been notified."
	msgMedNotFound = "Medication not found."

	msgUpdatePrompt = "Updating %s. What is the correct name of your medicine?"

	msgContactsHeader = "\U0001F46A Family Contact Management\n"
	msgContactsEmpty  = "No family contacts set up yet.\nAdd family members to receive important notifications!"
	msgContactsList   = "Your family contacts:"
	msgContactAsk     = "Please send the family member's name and Telegram user ID in this format:\n\nName, TelegramUserID"
	msgContactEditing = "Editing %s. Please send the new name and Telegram user ID in this format:\n\nName, TelegramUserID"
	msgContactFormat  = "Invalid format. Please send as: Name, TelegramUserID"
	msgContactAdded   = "Added family member: %s (ID: %d)"
	msgContactUpdated = "Updated family member: %s (ID: %d)"
	msgContactDeleted = "Removed family member: %s"
	msgContactMissing = "Family member not found."

	msgRemindHeader = "Tap to turn reminders on or off for each medication:"
	msgRemindEmpty  = "\U0001F4CB You don't have any medications scheduled yet. Use /medications to add some!"
	msgRemindSet    = "Reminders for %s set to %s."

	labelOther       = "Other"
	labelUpdateName  = "Update Medicine Name"
	labelUpdateDose  = "Update Dosage"
	labelUpdateTimes = "Update Times"
	labelConfirmAll  = "Confirm All Details"
	labelSaveFinish  = "Save and Finish"
	labelEditAgain   = "Update Details Again"
	labelYes         = "Yes"
	labelNo          = "No"
)
