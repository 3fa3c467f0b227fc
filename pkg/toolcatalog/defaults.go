package toolcatalog

var defaultSections = []Section{
	{ID: SectionFS, Name: "Files"},
	{ID: SectionRuntime, Name: "Runtime"},
	{ID: SectionWeb, Name: "Web"},
	{ID: SectionMemory, Name: "Memory"},
	{ID: SectionSessions, Name: "Sessions"},
	{ID: SectionUI, Name: "UI"},
	{ID: SectionMessaging, Name: "Messaging"},
	{ID: SectionAutomation, Name: "Automation"},
	{ID: SectionNodes, Name: "Nodes"},
	{ID: SectionAgents, Name: "Agents"},
	{ID: SectionMedia, Name: "Media"},
}

var defaultTools = []Tool{
	{
		ID:          "read",
		Label:       "Read",
		Description: "Read a file from the agent workspace.",
		Section:     SectionFS,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "write",
		Label:       "Write",
		Description: "Write or overwrite a file in the agent workspace.",
		Section:     SectionFS,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "edit",
		Label:       "Edit",
		Description: "Apply a targeted string replacement to a file.",
		Section:     SectionFS,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "apply_patch",
		Label:       "Apply Patch",
		Description: "Apply a multi-file patch to the workspace.",
		Section:     SectionFS,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "exec",
		Label:       "Exec",
		Description: "Run a shell command in the agent runtime.",
		Section:     SectionRuntime,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "process",
		Label:       "Process",
		Description: "Inspect and manage background processes started by exec.",
		Section:     SectionRuntime,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "web_search",
		Label:       "Web Search",
		Description: "Search the web for information. Returns a summary of search results.",
		Section:     SectionWeb,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "web_fetch",
		Label:       "Web Fetch",
		Description: "Fetch a URL and return readable page content.",
		Section:     SectionWeb,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "memory_search",
		Label:       "Memory Search",
		Description: "Search stored agent memories.",
		Section:     SectionMemory,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "memory_get",
		Label:       "Memory Get",
		Description: "Fetch a stored memory entry by path.",
		Section:     SectionMemory,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "sessions_list",
		Label:       "Sessions List",
		Description: "List active agent sessions.",
		Section:     SectionSessions,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "sessions_history",
		Label:       "Sessions History",
		Description: "Read the transcript of a session.",
		Section:     SectionSessions,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "sessions_send",
		Label:       "Sessions Send",
		Description: "Send a message into another session.",
		Section:     SectionSessions,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "sessions_spawn",
		Label:       "Sessions Spawn",
		Description: "Spawn a sub-session with its own context.",
		Section:     SectionSessions,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "session_status",
		Label:       "Session Status",
		Description: "Report the current session's status and usage.",
		Section:     SectionSessions,
		Profiles:    []ProfileID{ProfileMinimal, ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "browser",
		Label:       "Browser",
		Description: "Drive a headless browser session.",
		Section:     SectionUI,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "canvas",
		Label:       "Canvas",
		Description: "Render content to the shared canvas surface.",
		Section:     SectionUI,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "message",
		Label:       "Message",
		Description: "Send a message to a chat channel or user.",
		Section:     SectionMessaging,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "cron",
		Label:       "Cron",
		Description: "Manage scheduled jobs for this agent.",
		Section:     SectionAutomation,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "gateway",
		Label:       "Gateway",
		Description: "Administer the agent gateway process.",
		Section:     SectionAutomation,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "nodes",
		Label:       "Nodes",
		Description: "Interact with paired device nodes.",
		Section:     SectionNodes,
		Profiles:    []ProfileID{ProfileCoding},
	},
	{
		ID:          "agents_list",
		Label:       "Agents List",
		Description: "List configured agents.",
		Section:     SectionAgents,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "list_models",
		Label:       "List Models",
		Description: "List available models and providers.",
		Section:     SectionAgents,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "list_tools",
		Label:       "List Tools",
		Description: "List the tools available in this session.",
		Section:     SectionAgents,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "image",
		Label:       "Image",
		Description: "Generate or analyze an image.",
		Section:     SectionMedia,
		Profiles:    []ProfileID{ProfileCoding, ProfileMessaging},
		OpenClaw:    true,
	},
	{
		ID:          "tts",
		Label:       "TTS",
		Description: "Synthesize speech from text.",
		Section:     SectionMedia,
		Profiles:    []ProfileID{ProfileCoding},
	},
}
