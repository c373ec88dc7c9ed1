package command

func (e *Engine) builtinCommands() []*Command {
	t := e.trigger
	return []*Command{
		{
			Name:        "help",
			Description: "Gets information of available commands.",
			Syntax:      "``" + t + " help``",
			Routine:     e.help,
		},
		{
			Name:        "poll",
			Description: "Spawns a message in a poll format.",
			Syntax: "``" + t + " poll \"[title]\" \"[item]\"(...) [Optional: URL]`` e.g. ``" + t +
				" poll \"Which are better?\" \"Apples\" \"Oranges\" \"Pears\" https://i.imgur.com/85wyR2x.jpg``",
			Routine: e.poll,
		},
		{
			Name:        "delete",
			Description: "Deletes messages.",
			Syntax:      "``" + t + " delete [Optional: number of messages, between 0-1000]`` e.g. ``" + t + " delete 10``",
			AdminOnly:   true,
			Routine:     e.deleteMessages,
		},
		{
			Name:        "kick",
			Description: "Kicks user.",
			Syntax:      "``" + t + " kick @[Username]`` e.g. ``" + t + " kick @Bot``",
			AdminOnly:   true,
			Routine:     e.kick,
		},
		{
			Name:        "ban",
			Description: "Bans user.",
			Syntax:      "``" + t + " ban @[Username] [Optional: days of message history to remove, between 0-7]`` e.g. ``" + t + " ban @Bot 5``",
			AdminOnly:   true,
			Routine:     e.ban,
		},
		{
			Name:        "unban",
			Description: "Unbans user.",
			Syntax:      "``" + t + " unban @[Username]`` e.g. ``" + t + " unban @Bot``",
			AdminOnly:   true,
			Routine:     e.unban,
		},
		{
			Name:        "reloadcommands",
			Description: "Reloads custom commands.",
			Syntax:      "``" + t + " reloadcommands``",
			AdminOnly:   true,
			Routine:     e.reloadCommands,
		},
		{
			Name:        "reloadroles",
			Description: "Reloads role bindings and refreshes the role message.",
			Syntax:      "``" + t + " reloadroles``",
			AdminOnly:   true,
			Routine:     e.reloadComponent(ReloadRoles, "Role"),
		},
		{
			Name:        "reloadjoin",
			Description: "Reloads the join message template.",
			Syntax:      "``" + t + " reloadjoin``",
			AdminOnly:   true,
			Routine:     e.reloadComponent(ReloadJoin, "Join"),
		},
	}
}
