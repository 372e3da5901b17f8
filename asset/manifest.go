package asset

// DefaultManifest is the embedded deployment used when no config file is found
// Ambient states share priority 1 so timeouts can cycle between them
const DefaultManifest = `
initial_event: INIT
redirect_state: REDIRECT

# === States ===
states:
  IDLE:
    priority: 1
    asset: idle
    alt: Ducky is resting
    timeout: {min: 2s, max: 5s}
    on_enter:
      - {action: HideSpeech}

  WALK:
    priority: 1
    asset: walk
    alt: Ducky is walking
    motion: walk
    timeout: {min: 3s, max: 5s}
    on_enter:
      - {action: HideSpeech}

  THINKING:
    priority: 1
    asset: thinking
    alt: Ducky is thinking
    timeout: {after: 10s}
    on_enter:
      - {action: ShowSpeech, text: "hmm..."}

  ERROR:
    priority: 1
    asset: error
    alt: Ducky is confused
    timeout: {after: 3s}
    on_enter:
      - {action: ShowSpeech, text: "oops, something broke"}
      - {action: PlayCue, cue: buzz}

  INTERACTED:
    priority: 5
    asset: interacted
    alt: Ducky is listening
    timeout: {after: 1s}
    on_enter:
      - {action: ShowSpeech, text: "what u want?"}
      - {action: PlayCue, cue: quack}

  WAITING_TO_REDIRECT:
    priority: 6
    asset: interacted
    alt: Ducky is listening
    timeout: {after: 1s, event: REDIRECT_TIMER_EXPIRED}
    on_enter:
      - {action: UpdateSpeech, text: "i will direct u to the chatbot"}
      - {action: PlayCue, cue: chirp}

  REDIRECT:
    priority: 7
    asset: redirect
    alt: Ducky is leading the way
    on_enter:
      - {action: HideSpeech}
      - {action: PlayCue, cue: pop}

# === Transitions (state-specific entries win over ANY) ===
transitions:
  ANY:
    INIT: WALK
    DUCKY_CLICKED: INTERACTED
    API_START: THINKING
    API_END: IDLE
    API_ERROR: ERROR
  IDLE:
    TIMEOUT: WALK
  WALK:
    TIMEOUT: IDLE
  THINKING:
    TIMEOUT: IDLE
  ERROR:
    TIMEOUT: IDLE
  INTERACTED:
    TIMEOUT: WAITING_TO_REDIRECT
  WAITING_TO_REDIRECT:
    REDIRECT_TIMER_EXPIRED: REDIRECT

# === Motion (host cells per frame) ===
motion:
  speed_min: 0.2
  speed_max: 0.6
  pause_chance: 0.002
  pause_min: 500ms
  pause_max: 1500ms

speech:
  gap: 1
  max_width: 36

audio:
  enabled: true
  volume: 0.4

# === Sprites (facing right, mirrored by the host) ===
sprites:
  idle:
    - '    __   '
    - ' ___( -)>'
    - ' \ <_. ) '
    - '   ---   '
  walk:
    - '    __   '
    - ' ___( o)>'
    - ' \ <_. ) '
    - '  _/ \_  '
  thinking:
    - '    __ ? '
    - ' ___( ^)>'
    - ' \ <_. ) '
    - '   ---   '
  error:
    - '    __ ! '
    - ' ___( x)>'
    - ' \ <_. ) '
    - '   ---   '
  interacted:
    - '  \ __ / '
    - ' ___( O)>'
    - ' \ <_. ) '
    - '   ---   '
  redirect:
    - '    __ > '
    - ' ___( o)>'
    - ' \ <_. )>'
    - '  _/ \_  '
`
