package conf

type Bootstrap struct {
	Server    *Server
	Navigator *Navigator
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Navigator struct {
	Llm         *LLM         `json:"llm"`
	Workflow    *Workflow    `json:"workflow"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Workflow struct {
	StrictItemCount    bool  `json:"strict_item_count"`
	CallTimeoutSeconds int32 `json:"call_timeout_seconds"`
	MaxRetries         int32 `json:"max_retries"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
