package brief

// Template pools. Order matters: indices are derived from the day seed, so
// reordering or inserting entries changes every historical selection.

var summaryVariants = []string{
	"Global markets navigating rate policy uncertainty with mixed sentiment across asset classes",
	"Risk appetite showing cautious optimism amid evolving central bank guidance",
	"Crypto markets consolidating as traditional assets digest macro developments",
	"Volatility elevated across markets as investors assess policy trajectory",
	"Markets balancing growth concerns against resilient economic data",
	"Liquidity conditions tightening as central banks maintain restrictive stance",
	"Sentiment fragile with investors monitoring rate expectations closely",
	"Risk-on momentum building despite persistent macro headwinds",
}

var keyDriverVariants = [][]string{
	{"Central bank policy signals driving rate expectations", "Bitcoin testing key technical levels amid regulatory clarity", "Equity markets digesting earnings and macro data"},
	{"Fed commentary influencing Treasury yields and dollar strength", "Crypto sentiment improving on institutional adoption trends", "Tech sector volatility reflecting valuation concerns"},
	{"Rate path uncertainty weighing on risk asset positioning", "Digital asset markets consolidating after recent moves", "Credit spreads widening on growth concerns"},
	{"Inflation data shaping policy outlook and market pricing", "Crypto regulatory developments influencing sentiment", "Equity valuations adjusting to higher-for-longer rates"},
	{"Global growth indicators mixed across major economies", "Bitcoin correlation with risk assets remaining elevated", "Sector rotation reflecting defensive positioning"},
	{"Monetary policy divergence creating cross-asset volatility", "Crypto market structure evolving with ETF flows", "Bond market pricing in extended restrictive policy"},
	{"Economic data surprising to the upside supporting sentiment", "Digital asset liquidity improving across major pairs", "Earnings season revealing margin pressure themes"},
	{"Geopolitical developments adding risk premium to markets", "Crypto adoption metrics showing steady progress", "Market breadth narrowing as leadership concentrates"},
}

var watchNextVariants = [][]string{
	{"Central bank meeting minutes and policy guidance", "Key economic data releases (CPI, employment)", "Major crypto exchange regulatory updates"},
	{"Fed speakers and rate path commentary", "Corporate earnings from market leaders", "Bitcoin ETF flow data and institutional activity"},
	{"Treasury auction results and yield curve dynamics", "Crypto legislation progress in major jurisdictions", "GDP and productivity data releases"},
	{"Inflation metrics and core price trends", "Digital asset custody and infrastructure news", "Credit market stress indicators"},
	{"Employment data and wage growth figures", "Crypto market structure developments", "Sector-specific earnings guidance"},
	{"Global PMI data and manufacturing trends", "Bitcoin mining difficulty and hash rate", "Central bank balance sheet changes"},
}

var riskCatalystVariants = [][]RiskCatalyst{
	{
		{Description: "Central bank policy error risk", Impact: ImpactHigh},
		{Description: "Crypto regulatory uncertainty", Impact: ImpactMedium},
		{Description: "Geopolitical tensions escalating", Impact: ImpactMedium},
	},
	{
		{Description: "Recession probability increasing", Impact: ImpactHigh},
		{Description: "Digital asset market liquidity stress", Impact: ImpactMedium},
		{Description: "Credit market deterioration", Impact: ImpactHigh},
	},
	{
		{Description: "Inflation proving more persistent", Impact: ImpactHigh},
		{Description: "Crypto exchange counterparty risk", Impact: ImpactMedium},
		{Description: "Equity valuation compression", Impact: ImpactMedium},
	},
	{
		{Description: "Rate volatility disrupting markets", Impact: ImpactMedium},
		{Description: "Regulatory crackdown on crypto", Impact: ImpactHigh},
		{Description: "Earnings disappointments spreading", Impact: ImpactMedium},
	},
}
