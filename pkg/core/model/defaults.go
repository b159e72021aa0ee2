package model

// DefaultSettings are the settings a fresh install starts with
func DefaultSettings() Settings {
	return Settings{
		MeetingName:        "Gateway Men’s Meeting",
		MeetingDay:         "Friday",
		MeetingStartTime:   "7:00 PM",
		MeetingArriveTime:  "6:45 PM",
		MinConfirmed:       9,
		PreferredConfirmed: 12,
		MaxVolunteers:      14,
		Mission: "Gateway to Service exists to help members show up for Friday Night service at Gateway, " +
			"ensuring the responsibility of coordinating the list can be easily passed on to the next service member.",
		Messages: Messages{
			Invite: "Good morning [Name], You’re invited to attend the Gateway Men’s Meeting this Friday evening at 7 PM. " +
				"Please arrive at 6:45 PM.\n\n" +
				"Please reply to this text to let me know if you will or will not be attending.\n\n" +
				"Thank you for your willingness to serve and carry the message. God Bless 🙏🏾",
			FollowUp: "Good afternoon [Name],\n" +
				"Just following up on the invite for this Friday’s Gateway Men’s Meeting.\n\n" +
				"If you’re able to attend, that would be great. If not, no worries at all. " +
				"Please let me know so we can make sure the spot goes to someone who is available.\n\n" +
				"Thank you for your service and for getting back to me. God Bless 🙏🏾",
			Reminder: "Good afternoon,\n" +
				"Just a reminder that the Gateway Men’s Meeting is tonight at 7 PM.\n" +
				"See you at 6:45 PM. Thank you for your service 🙏🏾",
			FirstTime: "Good morning [Name],\n" +
				"Thank you for your willingness to volunteer for the Gateway Men’s Meeting this Friday evening. " +
				"We truly appreciate your heart for service and helping carry the message.\n\n" +
				"I just want to share a quick note about Gateway to Service. When we commit to attend, we’re committing " +
				"not only to the group, but also to the patients who are counting on us to be there. Because of that, " +
				"it’s important to only say yes if you’re confident you can attend as planned.\n\n" +
				"If you’re unsure about this Friday, it’s completely okay to let me know. We would rather give the " +
				"opportunity to someone who knows they’re available than risk a last-minute cancellation.\n\n" +
				"Please reply to this text to let me know if you will or will not be attending. " +
				"Either way, thank you again for your willingness to serve. God Bless 🙏🏾",
		},
	}
}

// DefaultState is an empty registry with the default settings
func DefaultState() *State {
	return NewState(DefaultSettings())
}
