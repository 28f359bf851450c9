package dashboard

// Texts shown to the user.
const (
	MsgHabitsFailed  = "Could not load your habits. Please try again later."
	MsgMissedFailed  = "Unable to load missed habits."
	MsgHistoryFailed = "Could not load your completion history."

	MsgLoginRequired  = "You need to be logged in to add habits."
	MsgFieldsRequired = "Please complete all the fields."
	MsgInvalidGoal    = "Please enter a valid number for the goal."

	MsgHabitAdded      = "New habit added successfully!"
	MsgAddFailed       = "Error occurred while adding habit."
	MsgHabitCompleted  = "Marked complete."
	MsgAlreadyComplete = "You have already marked this habit complete today."
	MsgCompleteFailed  = "Could not mark the habit complete. Please try again."
	MsgHabitRemoved    = "Habit removed."
	MsgDeleteFailed    = "Failed to delete the habit. Please try again."
	MsgGoalUpdated     = "Goal updated."
	MsgGoalFailed      = "Failed to update the goal. Please try again."
	MsgReminderSent    = "Reminder sent!"
	MsgReminderFailed  = "Could not send the reminder. Please try again."

	MsgInvalidLogin       = "Invalid username or password."
	MsgRegistered         = "Registration successful!"
	MsgRegistrationFailed = "Registration error."
)
