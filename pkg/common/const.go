package common

const (
	KEY_DOMAIN_ANALYSIS_PREFIX     = "domain_analysis:"
	KEY_DOMAIN_ANALYSIS_LATEST     = "domain_analysis:latest:%s"
	KEY_DOMAIN_ANALYSIS_ALL_LATEST = "domain_analysis:all_latest"
)

const (
	DATE_LAYOUT = "2006-01-02"
)

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)
