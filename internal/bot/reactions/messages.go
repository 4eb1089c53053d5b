package reactions

const (
	askReplyTemplate = "Hi %s 👋\nWe appreciate your question and we'll do our best to help you when we can. Could you please give us more details? Please follow the guidelines in <https://rmx.as/ask> (especially the part about making a <https://rmx.as/repro>) and then we'll try to answer your question."

	renameThreadTip = "Feel free to change the thread title to something more descriptive if you like."

	threadReplyTemplate = "Hi %s 👋\nLet's discuss this further here. Feel free to change the thread title to something more descriptive if you like."

	doubleMessageReply = "Please avoid posting the same thing in multiple channels. Choose the best channel, and wait for a response there. Please delete the other message to avoid fragmenting the answers and causing confusion. Thanks!"

	dontAskToAskReply = "We're happy to answer your questions if we can, so you don't need to ask if you can ask. Learn more: <https://dontasktoask.com>"

	officeHoursTemplate = "If you don't get a satisfactory answer here, feel free to ask Kent in %[1]s and he'll do his best to answer during his <https://kcd.im/office-hours>. To do so, formulate your question to make sure it's clear (follow the guidelines in <https://kcd.im/ask>) and a <https://kcd.im/repro> helps a lot if applicable. Then post it to %[1]s or join the meeting and ask live. Kent streams/records his office hours on YouTube so even if you can't make it in person, you should be able to watch his answer later."

	callKentReply = `This looks like a great question for Kent's "Call Kent Podcast": https://kentcdodds.com/call

Simply create an account on kentcdodds.com, then go to <https://kentcdodds.com/calls/record/new> to record your question and Kent will answer when he gets the chance. Don't forget to subscribe to the podcast so you can hear the answer!`

	helpGreetingTemplate = "Hi %s 👋. You requested help in %s. I'm here to help you."
	helpPointerTemplate  = "Hey %s, I sent you a message here: %s"
	helpEmbedTitle       = "🛎 Reactions Help"
	helpEmbedDescription = "Here are the available bot reactions:"
	noDescription        = "No description provided"

	reportThreadTemplate = "🚨 Report on %s"
	reportPingTemplate   = "Hey %s. We need your attention on this report."
	reportEmbedTitle     = "🚨 User Report"
	reportEmbedDesc      = "A user has reported a message."
	questionThreadName   = "🧵 Thread for %s"
)
