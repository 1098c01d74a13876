package skills

// catalog 是内置技能词表，按类别分组；重复项在构建 Dictionary 时去除。
var catalog = [][]string{
	// Programming languages
	{"python", "java", "javascript", "typescript", "c", "c++", "c#", "csharp",
		"go", "golang", "rust", "ruby", "php", "swift", "kotlin", "scala",
		"r", "perl", "shell", "bash", "powershell", "sql", "html", "css",
		"dart", "objective-c", "lua", "haskell", "elixir", "clojure"},
	// Frontend
	{"react", "reactjs", "react.js", "vue", "vuejs", "vue.js", "angular",
		"angularjs", "svelte", "next.js", "nextjs", "nuxt", "gatsby",
		"jquery", "bootstrap", "tailwind", "tailwindcss", "material-ui",
		"sass", "scss", "less", "webpack", "vite", "redux", "mobx"},
	// Backend
	{"node.js", "nodejs", "express", "expressjs", "django", "flask",
		"fastapi", "spring", "spring boot", "springboot", ".net", "dotnet",
		"asp.net", "laravel", "symfony", "rails", "ruby on rails",
		"nestjs", "koa", "hapi", "gin", "echo", "actix"},
	// Mobile
	{"react native", "flutter", "android", "ios", "xamarin", "ionic",
		"cordova", "swiftui"},
	// Databases
	{"mongodb", "mysql", "postgresql", "postgres", "sql server", "oracle",
		"sqlite", "redis", "cassandra", "dynamodb", "elasticsearch",
		"mariadb", "couchdb", "neo4j", "firebase", "firestore",
		"realm", "supabase"},
	// Cloud platforms
	{"aws", "amazon web services", "azure", "microsoft azure", "gcp",
		"google cloud", "google cloud platform", "heroku", "digitalocean",
		"linode", "cloudflare", "vercel", "netlify"},
	// AWS
	{"ec2", "s3", "lambda", "rds", "dynamodb", "cloudfront", "route53",
		"iam", "vpc", "cloudwatch", "sns", "sqs", "api gateway"},
	// Azure
	{"azure functions", "azure storage", "azure sql", "cosmos db",
		"azure devops"},
	// GCP
	{"compute engine", "cloud storage", "cloud functions", "bigquery",
		"cloud sql", "app engine"},
	// DevOps & CI/CD
	{"docker", "kubernetes", "k8s", "jenkins", "gitlab", "github actions",
		"circleci", "travis ci", "ansible", "terraform", "puppet", "chef",
		"vagrant", "helm", "argocd", "prometheus", "grafana", "nagios",
		"ci/cd", "continuous integration", "continuous deployment"},
	// Version control
	{"git", "github", "gitlab", "bitbucket", "svn", "mercurial"},
	// Data science & ML
	{"pandas", "numpy", "scipy", "matplotlib", "seaborn", "plotly",
		"scikit-learn", "sklearn", "tensorflow", "keras", "pytorch",
		"xgboost", "lightgbm", "catboost", "opencv", "nltk", "spacy",
		"hugging face", "transformers", "bert", "gpt"},
	// Data engineering
	{"apache spark", "hadoop", "kafka", "airflow", "luigi", "dbt",
		"snowflake", "databricks", "redshift", "bigquery"},
	// Testing
	{"jest", "mocha", "chai", "pytest", "unittest", "selenium",
		"cypress", "playwright", "junit", "testng", "rspec",
		"jasmine", "karma"},
	// API & web
	{"rest", "restful", "rest api", "graphql", "grpc", "soap",
		"websocket", "webhooks", "oauth", "jwt", "json", "xml",
		"microservices", "api design"},
	// Monitoring & logging
	{"elk", "elasticsearch", "logstash", "kibana", "splunk",
		"datadog", "new relic", "sentry"},
	// Message queues
	{"rabbitmq", "kafka", "redis", "celery", "activemq", "zeromq"},
	// Web servers
	{"nginx", "apache", "tomcat", "iis", "gunicorn", "uvicorn"},
	// Operating systems
	{"linux", "unix", "windows", "macos", "ubuntu", "centos",
		"debian", "redhat", "fedora"},
	// Methodologies
	{"agile", "scrum", "kanban", "devops", "tdd", "bdd",
		"test driven development", "behavior driven development",
		"pair programming", "code review", "ci/cd"},
	// Design & architecture
	{"system design", "software architecture", "design patterns",
		"oop", "object oriented programming", "functional programming",
		"mvc", "mvvm", "clean architecture", "solid principles",
		"domain driven design", "ddd"},
	// Security
	{"security", "cybersecurity", "penetration testing", "owasp",
		"ssl", "tls", "encryption", "authentication", "authorization",
		"firewall", "vpn"},
	// Soft skills
	{"communication", "leadership", "teamwork", "team collaboration",
		"problem solving", "critical thinking", "time management",
		"project management", "mentoring", "presentation",
		"analytical skills", "attention to detail", "creative thinking",
		"adaptability", "flexibility", "self-motivated"},
	// Project management tools
	{"jira", "confluence", "trello", "asana", "slack", "notion",
		"monday.com", "microsoft teams", "zoom"},
	// Other tools
	{"postman", "insomnia", "swagger", "figma", "sketch",
		"adobe xd", "photoshop", "illustrator", "vs code",
		"visual studio", "intellij", "pycharm", "eclipse",
		"vim", "emacs"},
	// Blockchain
	{"blockchain", "ethereum", "solidity", "smart contracts",
		"web3", "nft", "defi"},
	// Game development
	{"unity", "unreal engine", "godot", "game development"},
	// Data formats
	{"json", "xml", "yaml", "csv", "parquet", "avro"},
	// Business & analytics
	{"tableau", "power bi", "looker", "excel", "google analytics",
		"mixpanel", "amplitude"},
	// E-commerce & CMS
	{"shopify", "wordpress", "woocommerce", "magento", "drupal",
		"contentful", "strapi"},
}
